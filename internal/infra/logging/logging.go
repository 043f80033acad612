// Package logging installs the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Config is read from APP_LOG_LEVEL; slog.Level parses DEBUG, INFO, WARN,
// ERROR and offsets such as "INFO+2".
type Config struct {
	Level slog.Level `env:"APP_LOG_LEVEL" envDefault:"INFO"`
}

// NewJSON returns a JSON logger writing to w at the given level.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetupJSON sets slog's default logger to use JSON output on stdout at the
// given level.
func SetupJSON(level slog.Level) {
	slog.SetDefault(NewJSON(os.Stdout, level))
}
