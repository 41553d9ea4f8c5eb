// Package obs holds shared observability helpers: structured logging setup
// and per-operation timing.
package obs

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerConfig controls the global zerolog setup.
type LoggerConfig struct {
	Level  string
	Pretty bool
	Output io.Writer
}

// SetupLogger configures the global zerolog logger and returns it.
// JSON output by default; Pretty enables the human-readable console writer.
func SetupLogger(cfg LoggerConfig) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// NewLogger returns a logger scoped to one component.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
