package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/abundance/pkg/logger"
)

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, session_id, trace_id, and span_id, then stores it in
// context via logger.NewContext. Downstream handlers retrieve it with
// logger.FromContext(ctx).
//
// Mount it after RequestLogging and Tracing, and after any middleware that
// resolves the basket session.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if logger.SessionIDFromContext(ctx) == "" {
				if sid := r.Header.Get("X-Session-ID"); sid != "" {
					ctx = logger.WithSessionID(ctx, sid)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
