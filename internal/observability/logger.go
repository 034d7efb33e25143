package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: structured JSON in production,
// human-readable text at debug level in dev. Either way records are
// decorated with trace ids when a span is active.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler

	if env == "dev" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return slog.New(newTraceHandler(handler))
}
