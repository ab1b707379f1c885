// Package main runs the worker service, which receives Pub/Sub pushes and
// carries out the tasks inside them against LiveKit.
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
		slog.Error("worker exited", "error", err)
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
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
	log = log.With("service", "worker")

	log.Info("worker configuration loaded",
		"port", cfg.Server.Port,
		"livekit_url", cfg.LiveKit.URL,
		"max_sessions", cfg.Worker.MaxSessions,
		"session_timeout", cfg.Worker.SessionTimeout,
		"dead_letter_topic", cfg.PubSub.DeadLetterTopic)

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
