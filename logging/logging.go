package logging

import (
	"io"
	"log/slog"
	"strings"
)

// FormatJSON and FormatText select the handler kind built by NewLogger.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	// Level is one of debug, info, warn, error (case-insensitive).
	// Invalid or empty means info.
	Level string
	// Format is json or text; anything else means json.
	Format string
}

// NewLogger creates a new slog.Logger writing to w. The level and format
// are parsed from the config with safe fallbacks, so a zero LoggerConfig
// yields an info-level JSON logger.
func NewLogger(config LoggerConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource:   false,
		Level:       parseLevel(config.Level),
		ReplaceAttr: nil,
	}

	if strings.EqualFold(config.Format, FormatText) {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

// Named derives a child logger tagged with a component name. Components of
// the fixture layer hold such a logger explicitly instead of looking one up
// by global name.
func Named(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}

	return logger.With(slog.String("component", component))
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
