package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide JSON logger.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
