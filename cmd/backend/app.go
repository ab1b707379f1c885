package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/voicecare/relay/internal/config"
	"github.com/voicecare/relay/internal/platform/pubsub"
	"github.com/voicecare/relay/internal/platform/secrets"
	"github.com/voicecare/relay/internal/redact"
	"github.com/voicecare/relay/internal/service"
	"github.com/voicecare/relay/internal/service/auth"
)

// application holds the backend's long-lived dependencies.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	taskService  service.TaskService
	tokenService service.TokenService
	pubsub       *pubsub.Client
}

// newApplication resolves secrets and connects to Pub/Sub. A secret that
// cannot be resolved aborts startup.
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

	psClient, err := pubsub.NewClient(ctx, cfg.GCP.ProjectID, logger)
	if err != nil {
		return nil, err
	}
	publisher := psClient.Publisher(cfg.PubSub.Topic, cfg.PubSub.PublishTimeout)

	taskService, err := service.NewTaskService(publisher, logger)
	if err != nil {
		_ = psClient.Close()
		return nil, err
	}
	tokenService, err := service.NewTokenService(issuer, cfg.LiveKit.ClientTokenTTL, logger)
	if err != nil {
		_ = psClient.Close()
		return nil, err
	}

	return &application{
		config:       cfg,
		logger:       logger,
		taskService:  taskService,
		tokenService: tokenService,
		pubsub:       psClient,
	}, nil
}

func (app *application) router() http.Handler {
	return newRouter(app.logger, app.taskService, app.tokenService)
}

// cleanup flushes pending publishes and closes the Pub/Sub connection.
func (app *application) cleanup(context.Context) error {
	if app.pubsub == nil {
		return nil
	}
	return app.pubsub.Close()
}
