package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/voicecare/relay/internal/api"
	apiMiddleware "github.com/voicecare/relay/internal/api/middleware"
	"github.com/voicecare/relay/internal/service"
)

// newRouter wires the backend's routes and middleware.
func newRouter(logger *slog.Logger, tasks service.TaskService, tokens service.TokenService) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(logger))

	taskHandler := api.NewTaskHandler(tasks, tokens)

	r.Get("/health", api.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware.RequireAuthorization)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Post("/livekit-token", taskHandler.IssueToken)
		r.Post("/start-room", taskHandler.StartRoom)
	})

	return r
}
