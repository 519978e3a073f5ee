package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"perplexica/internal/config"
	"perplexica/internal/database"
	"perplexica/internal/logging"
	"perplexica/internal/providers"
	"perplexica/internal/server"
	"perplexica/internal/telemetry"
	"perplexica/internal/version"
)

func newServeCommand() *cobra.Command {
	var flags settingsFlags
	var otelEndpoint string
	var otelInsecure bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := flags.build(cmd.Flags())
			versionInfo := version.Get()
			logging.Info("Starting perplexica %s with %s", versionInfo.Version, cfg)

			if otelEndpoint != "" {
				shutdown, err := telemetry.Initialize(ctx, telemetry.Config{
					ServiceVersion: versionInfo.Version,
					Endpoint:       otelEndpoint,
					Insecure:       otelInsecure,
				})
				if err != nil {
					// Tracing is optional; keep serving without it
					logging.Warning("Failed to initialize telemetry: %v", err)
				} else {
					defer func() {
						if err := shutdown(context.Background()); err != nil {
							logging.Error("Error shutting down telemetry: %v", err)
						}
					}()
				}
			}

			db, err := database.Open(ctx, cfg.GetDatabasePath())
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Error("Error closing database: %v", err)
				}
			}()

			srv := server.New(config.NewStore(cfg), providers.NewRegistry(nil), versionInfo, server.WithChatStore(db))
			return srv.Start(ctx)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP/HTTP collector host:port (tracing disabled when empty)")
	cmd.Flags().BoolVar(&otelInsecure, "otel-insecure", false, "Send traces over plain HTTP")
	return cmd
}
