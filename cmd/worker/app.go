package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/voicecare/relay/internal/config"
	"github.com/voicecare/relay/internal/dispatch"
	"github.com/voicecare/relay/internal/platform/livekit"
	"github.com/voicecare/relay/internal/platform/pubsub"
	"github.com/voicecare/relay/internal/platform/secrets"
	"github.com/voicecare/relay/internal/redact"
	"github.com/voicecare/relay/internal/service/auth"
)

// application holds the worker's long-lived dependencies.
type application struct {
	config     *config.Config
	logger     *slog.Logger
	sessions   *dispatch.SessionManager
	dispatcher *dispatch.Dispatcher
	pubsub     *pubsub.Client
}

func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	provider, err := secrets.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create secret provider: %w", err)
	}
	creds, err := secrets.ResolveLiveKit(ctx, provider, cfg.LiveKit)
	if closer, ok := provider.(secrets.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			logger.Warn("failed to close secret provider", "error", redact.Error(cerr))
		}
	}
	if err != nil {
		return nil, err
	}

	issuer, err := auth.NewTokenIssuer(creds.APIKey, creds.APISecret)
	if err != nil {
		return nil, fmt.Errorf("create token issuer: %w", err)
	}

	roomClient, err := livekit.NewRoomClient(cfg.LiveKit.URL, logger)
	if err != nil {
		return nil, err
	}

	sessions := dispatch.NewSessionManager(issuer, roomClient, dispatch.SessionManagerConfig{
		Identity:       cfg.Worker.Identity,
		TokenTTL:       cfg.LiveKit.WorkerTokenTTL,
		SessionTimeout: cfg.Worker.SessionTimeout,
		MaxSessions:    cfg.Worker.MaxSessions,
	}, logger)

	responder, err := newResponder(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &application{config: cfg, logger: logger, sessions: sessions}

	var sink dispatch.DeadLetterSink = dispatch.NewLogSink(logger)
	if cfg.PubSub.DeadLetterTopic != "" {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP.ProjectID, logger)
		if err != nil {
			return nil, err
		}
		app.pubsub = psClient
		sink = dispatch.NewPubSubSink(
			psClient.Publisher(cfg.PubSub.DeadLetterTopic, cfg.PubSub.PublishTimeout), logger)
	}

	app.dispatcher, err = dispatch.NewDispatcher(sessions, responder, sink, logger)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// newResponder uses Gemini when an API key is configured and the echo
// responder otherwise.
func newResponder(ctx context.Context, cfg *config.Config, logger *slog.Logger) (dispatch.Responder, error) {
	if cfg.LLM.GeminiAPIKey == "" {
		return dispatch.NewEchoResponder(cfg.Worker.ResponseDelay, logger), nil
	}
	responder, err := dispatch.NewGeminiResponder(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("create gemini responder: %w", err)
	}
	logger.Info("using gemini responder", "model", cfg.LLM.Model)
	return responder, nil
}

func (app *application) router() http.Handler {
	return newRouter(app.logger, app.dispatcher)
}

// cleanup closes open room sessions, then the Pub/Sub connection.
func (app *application) cleanup(ctx context.Context) error {
	var errs []error
	if err := app.sessions.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if app.pubsub != nil {
		if err := app.pubsub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
