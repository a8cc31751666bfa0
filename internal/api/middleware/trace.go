package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mwhitlock/taskhub/internal/api/shared"
	"github.com/mwhitlock/taskhub/internal/platform/logger"
)

// TraceMiddleware assigns each request a trace ID and a request-scoped
// logger carrying it. Apply it early so every downstream handler and store
// logs with the same trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
