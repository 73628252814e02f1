package log

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const loggerKey contextKey = "logger"

// FromContext returns the request-scoped logger, or the default logger
// when the request did not pass through Middleware.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		return logger
	}
	return New(DefaultConfig())
}

// WithLogger stores a logger in the context for downstream handlers.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// statusRecorder captures the response status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware logs each HTTP request and injects a request-scoped logger.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.WithComponent(ComponentHTTP).With(
				FieldMethod, r.Method,
				FieldPath, r.URL.Path,
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			ctx := WithLogger(r.Context(), reqLogger)
			next.ServeHTTP(rec, r.WithContext(ctx))

			reqLogger.InfoContext(ctx, "request completed",
				FieldStatus, rec.status,
				FieldDuration, time.Since(start),
				FieldRemoteIP, r.RemoteAddr,
			)
		})
	}
}
