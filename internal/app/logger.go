package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/jgivc/anexofetch/internal/config"
)

func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case config.LogLevelInfo:
		lvl = slog.LevelInfo
	case config.LogLevelWarn:
		lvl = slog.LevelWarn
	case config.LogLevelError:
		lvl = slog.LevelError
	case config.LogLevelDebug:
		lvl = slog.LevelDebug
	default:
		return nil, fmt.Errorf("unknown log level: %q", level)
	}

	lo := &slog.HandlerOptions{Level: lvl}

	switch format {
	case config.LogFormatText:
		return slog.New(slog.NewTextHandler(w, lo)), nil
	case config.LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, lo)), nil
	case config.LogFormatConsole:
		h := charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(lvl),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		})

		return slog.New(h), nil
	default:
		return nil, fmt.Errorf("unknown log format: %q", format)
	}
}
