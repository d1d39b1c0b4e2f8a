// Command groundcheck verifies drafts against trust-scored memory files
// and serves the verification pipeline over MCP.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ashita-ai/groundcheck/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

// Exit codes: 0 on passed, 1 on failed verification, 2 on malformed
// input or any operational error.
const (
	exitPassed    = 0
	exitFailed    = 1
	exitMalformed = 2
)

// errVerificationFailed signals exit code 1 without printing a second
// error message.
var errVerificationFailed = errors.New("verification failed")

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(os.Getenv("GROUNDCHECK_LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitMalformed
	}

	root := newRootCmd(cfg, logger)
	if err := root.Execute(); err != nil {
		if errors.Is(err, errVerificationFailed) {
			return exitFailed
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitMalformed
	}
	return exitPassed
}

func newRootCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "groundcheck",
		Short:         "Detect hallucinations in agent output against trust-scored memories",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newVerifyCmd(cfg, logger))
	root.AddCommand(newExtractCmd(logger))
	root.AddCommand(newServeMCPCmd(cfg, logger))
	return root
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
