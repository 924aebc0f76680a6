package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/crop-engine/pkg/types"
)

// NewLogger builds a slog.Logger writing to w with the configured level
// and handler format. Unknown levels fall back to info.
func NewLogger(w io.Writer, cfg types.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
