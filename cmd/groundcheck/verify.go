package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	groundcheck "github.com/ashita-ai/groundcheck"
	"github.com/ashita-ai/groundcheck/internal/config"
)

func newVerifyCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var (
		memoriesPath string
		strict       bool
		jsonOut      bool
		quiet        bool
		batchPath    string
	)

	cmd := &cobra.Command{
		Use:   "verify [draft]",
		Short: "Verify a draft against a memory file",
		Long: `Verify cross-checks a draft against the memories in --memories.
Pass the draft as an argument, or "-" to read it from stdin.
Exit code 0 means the draft passed, 1 means it failed, 2 means the
input was malformed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := groundcheck.New(
				groundcheck.WithLogger(logger),
				groundcheck.WithDisclosureThreshold(cfg.DisclosureThreshold),
			)
			if err != nil {
				return err
			}
			memories, err := loadMemories(memoriesPath)
			if err != nil {
				return err
			}
			mode := groundcheck.ModePermissive
			if strict {
				mode = groundcheck.ModeStrict
			}

			if batchPath != "" {
				return runBatch(cmd.OutOrStdout(), gc, memories, mode, batchPath, cfg.BatchWorkers, jsonOut)
			}

			draft, err := readDraft(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			report, err := gc.Verify(draft, memories, mode)
			if err != nil {
				return err
			}
			if !quiet {
				printReport(cmd.OutOrStdout(), report, jsonOut)
			}
			if !report.Passed {
				return errVerificationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&memoriesPath, "memories", "m", "", "path to the JSON memory file (required)")
	cmd.Flags().BoolVar(&strict, "strict", false, "rewrite hallucinated values with grounded ones")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full report as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress output; exit code only")
	cmd.Flags().StringVar(&batchPath, "batch", "", "verify one draft per line from this file")
	_ = cmd.MarkFlagRequired("memories")
	return cmd
}

// readDraft takes the draft from the argument, or stdin for "-"/no arg.
func readDraft(in io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read draft: %w", err)
	}
	draft := strings.TrimSpace(string(raw))
	if draft == "" {
		return "", fmt.Errorf("empty draft")
	}
	return draft, nil
}

// runBatch verifies one draft per line concurrently. Report order
// follows input order; any failing draft fails the batch.
func runBatch(out io.Writer, gc *groundcheck.Checker, memories []groundcheck.Memory, mode groundcheck.Mode, path string, workers int, jsonOut bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()

	var drafts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			drafts = append(drafts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read batch: %w", err)
	}

	reports := make([]groundcheck.VerificationReport, len(drafts))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, draft := range drafts {
		g.Go(func() error {
			report, err := gc.Verify(draft, memories, mode)
			if err != nil {
				return fmt.Errorf("draft %d: %w", i+1, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, report := range reports {
		if !report.Passed {
			failed++
		}
		fmt.Fprintf(out, "--- draft %d ---\n", i+1)
		printReport(out, report, jsonOut)
	}

	if failed > 0 {
		fmt.Fprintf(out, "%d/%d drafts failed\n", failed, len(drafts))
		return errVerificationFailed
	}
	return nil
}

func printReport(out io.Writer, report groundcheck.VerificationReport, jsonOut bool) {
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
		return
	}
	if report.Passed {
		fmt.Fprintf(out, "passed (confidence %.2f)\n", report.Confidence)
	} else {
		fmt.Fprintf(out, "FAILED (confidence %.2f)\n", report.Confidence)
	}
	for _, h := range report.Hallucinations {
		fmt.Fprintf(out, "  hallucinated: %s\n", h)
	}
	for _, c := range report.ContradictionDetails {
		fmt.Fprintf(out, "  conflict on %s: %s\n", c.Slot, strings.Join(c.Values, " vs "))
	}
	if report.Corrected != nil {
		fmt.Fprintf(out, "  corrected: %s\n", *report.Corrected)
	}
	if report.RequiresDisclosure {
		fmt.Fprintln(out, "  sources conflict: disclosure required")
	}
}
