package main

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	groundcheck "github.com/ashita-ai/groundcheck"
)

func newExtractCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [text]",
		Short: "Print the claims and knowledge facts extracted from text",
		Long: `Extract runs both extraction tiers over the text and prints the
result as JSON. Pass the text as an argument, or "-" to read stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, err := groundcheck.New(groundcheck.WithLogger(logger))
			if err != nil {
				return err
			}
			text, err := readDraft(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			out := struct {
				Claims         map[string]groundcheck.ExtractedFact `json:"claims"`
				KnowledgeFacts []groundcheck.KnowledgeFact          `json:"knowledge_facts,omitempty"`
			}{
				Claims:         gc.ExtractClaims(text),
				KnowledgeFacts: gc.ExtractKnowledgeFacts(text),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
