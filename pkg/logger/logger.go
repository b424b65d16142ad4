// Package logger provides a structured, levelled logger built on log/slog.
//
// Every log line emitted from a request handler carries the request_id that
// reqid.Middleware injected, via WithCtx:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("transaction recorded", "total", 105450)
//	// → time=... level=INFO msg="transaction recorded" request_id=a1b2c3d4 total=105450
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/Blawness/SimplePOS/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	if config.IsProduction() {
		// Structured JSON for log aggregators.
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		// Human-readable for development.
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// UseHandler swaps the process-wide handler, e.g. to fan out to the MongoDB
// audit sink on top of stdout. Called once at boot, before any requests.
func UseHandler(h slog.Handler) {
	L = slog.New(h)
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the *slog.Logger the Logger middleware stored in ctx,
// pre-tagged with the request_id. Falls back to the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware, not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
