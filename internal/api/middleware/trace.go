package middleware

import (
	"log/slog"
	"net/http"

	"github.com/voicecare/relay/internal/api/shared"
	"github.com/voicecare/relay/internal/platform/logger"
)

// CloudTraceHeader is set by Google front ends on every request.
const CloudTraceHeader = "X-Cloud-Trace-Context"

// Trace returns middleware that adds a trace ID to the request context and a
// logger carrying it. Requests arriving with an X-Cloud-Trace-Context header
// reuse its trace ID.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if traceID := shared.CloudTraceID(r.Header.Get(CloudTraceHeader)); traceID != "" {
				ctx = shared.WithTraceID(ctx, traceID)
			} else {
				ctx = shared.SetTraceID(ctx)
			}
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
