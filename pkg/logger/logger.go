package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a slog logger with the requested verbosity level. Every record
// carries the service name so log aggregation can tell the orchestrator apart
// from the downstream channel workers.
func New(level, service string) *slog.Logger {
	lvl := parseLevel(level)
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	})
	return slog.New(handler).With(slog.String("service", service))
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
