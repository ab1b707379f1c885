// Package main runs the backend service: it accepts tasks from clients,
// publishes them to Pub/Sub and issues LiveKit room tokens.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/voicecare/relay/internal/config"
	"github.com/voicecare/relay/internal/platform/logger"
	"github.com/voicecare/relay/internal/platform/server"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("backend exited", "error", err)
		fmt.Fprintf(os.Stderr, "backend: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log = log.With("service", "backend")

	log.Info("backend configuration loaded",
		"port", cfg.Server.Port,
		"project_id", cfg.GCP.ProjectID,
		"topic", cfg.PubSub.Topic,
		"secrets_provider", cfg.Secrets.Provider)

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return server.Run(ctx, app.router(), server.Options{
		Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Cleanup:         app.cleanup,
		Logger:          log,
	})
}
