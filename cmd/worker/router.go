package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/voicecare/relay/internal/api"
	apiMiddleware "github.com/voicecare/relay/internal/api/middleware"
	"github.com/voicecare/relay/internal/dispatch"
)

// newRouter wires the worker's routes and middleware.
func newRouter(logger *slog.Logger, dispatcher *dispatch.Dispatcher) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(logger))

	pushHandler := api.NewPushHandler(dispatcher)

	r.Get("/health", api.Health)
	r.Post("/pubsub/push", pushHandler.Push)

	return r
}
