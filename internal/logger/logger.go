package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/expense-cli/expense/internal/config"
)

// New builds a slog.Logger writing to w according to cfg.
func New(w io.Writer, cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init installs a stderr logger as the slog default and returns it.
func Init(cfg config.Log) *slog.Logger {
	l := New(os.Stderr, cfg)
	slog.SetDefault(l)
	return l
}

// ParseLevel maps a config level name to a slog.Level. Unknown names map to warn.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
