// Package logger builds the service slog.Logger from config.
package logger

import (
	"github.com/Borislavv/go-ash-cachemgr/config"
	"io"
	"log/slog"
	"strings"
)

const service = "ashCacheMgr"

func New(cfg config.LogCfg, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(slog.String("service", service))
}

// ParseLevel maps a level name to slog.Level; unknown names are Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
