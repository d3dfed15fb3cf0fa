package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/uAvicii/0718/pkg/ctxutil"
)

// Logger returns middleware that logs each HTTP request with method, path,
// route pattern, status, size, duration and request_id. Handlers further down
// get a request-scoped logger through ctxutil.LoggerFromCtx.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := ctxutil.RequestIDFromCtx(r.Context())

			scoped := logger
			if requestID != "" {
				scoped = logger.With(slog.String("request_id", requestID))
			}
			r = r.WithContext(ctxutil.WithLogger(r.Context(), scoped))

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Int("bytes", sw.bytes),
				slog.Duration("duration", time.Since(start)),
			}
			if r.Pattern != "" {
				attrs = append(attrs, slog.String("route", r.Pattern))
			}

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status >= 400:
				level = slog.LevelWarn
			}
			scoped.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}
