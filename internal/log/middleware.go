package log

import (
	"context"
	"log/slog"
	"net/http"
)

type ctxKey struct{}

// RequestAttrs extracts per-request attributes for the request logger.
type RequestAttrs func(r *http.Request) []any

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Middleware stores a request-scoped logger in the request context. Each
// attrs function contributes key/value pairs to that logger.
func Middleware(logger *Logger, attrs ...RequestAttrs) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger
			var args []any
			for _, fn := range attrs {
				args = append(args, fn(r)...)
			}
			if len(args) > 0 {
				l = l.With(args...)
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), l)))
		})
	}
}

// FromContext returns the logger stored by NewContext, or one wrapping the
// slog default tagged with component "unknown".
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}
