package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls the SDK's log output.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "disabled", ...).
	// If empty, the info level is used.
	Level string

	// Writer receives log output. Defaults to stderr.
	Writer io.Writer

	// HumanReadable switches from JSON to console-formatted output.
	HumanReadable bool
}

// New creates a configured logger based on Config.
func New(cfg Config) (zerolog.Logger, error) {
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), err
		}
		level = parsed
	}

	var output io.Writer = writer
	if cfg.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

// Configure replaces the global logger the SDK packages log through.
func Configure(cfg Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	log.Logger = logger
	return nil
}
