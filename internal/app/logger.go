package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/uAvicii/0718/internal/config"
)

// serviceName is attached to every record so logs from the server and
// journalctl can be told apart from other processes on the host.
const serviceName = "memoir"

// NewLogger builds the process logger from cfg, writes to os.Stderr and
// installs it as the slog default.
//
// Format "json" produces structured output; anything else produces text with
// source locations. Level is debug, info, warn or error (case-insensitive);
// unknown values mean info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	isJSON := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !isJSON,
	}

	var handler slog.Handler
	if isJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", serviceName))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
