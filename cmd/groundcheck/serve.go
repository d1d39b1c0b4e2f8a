package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ashita-ai/groundcheck/internal/config"
	"github.com/ashita-ai/groundcheck/internal/mcp"
	"github.com/ashita-ai/groundcheck/internal/ontology"
	"github.com/ashita-ai/groundcheck/internal/storage"
	"github.com/ashita-ai/groundcheck/internal/telemetry"
	"github.com/ashita-ai/groundcheck/internal/verify"
)

func newServeMCPCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the verifier and memory store over stdio MCP",
		Long: `serve-mcp exposes groundcheck_verify, groundcheck_remember,
groundcheck_recall and groundcheck_forget as MCP tools over stdio,
backed by a persistent SQLite memory store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
			if err != nil {
				return fmt.Errorf("telemetry: %w", err)
			}
			defer func() { _ = otelShutdown(context.Background()) }()

			var metrics *telemetry.VerifyMetrics
			if cfg.OTELEndpoint != "" {
				metrics, err = telemetry.NewVerifyMetrics()
				if err != nil {
					return err
				}
			}

			store, err := storage.Open(dbPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			engine := verify.NewEngine(verify.Config{
				Tables:              ontology.Default(logger),
				Logger:              logger,
				DisclosureThreshold: cfg.DisclosureThreshold,
			})

			server := mcp.New(store, engine, metrics, logger, cfg.DefaultNamespace, version)
			logger.Info("groundcheck mcp server starting", "version", version, "db", dbPath, "namespace", cfg.DefaultNamespace)
			return server.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", cfg.DBPath, "path to the SQLite memory store")
	return cmd
}
