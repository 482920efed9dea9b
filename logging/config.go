package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable that sets the initial log level.
const EnvLevel = "LOG_LEVEL"

// Config is the "logging" section of the application configuration.
type Config struct {
	Level     string `toml:"level" yaml:"level"`
	Format    string `toml:"format" yaml:"format" default:"text"`
	AddSource bool   `toml:"add_source" yaml:"add_source"`
}

// Options control how the Logging component starts, before any
// configuration file has been read.
type Options struct {
	// Verbose forces the debug level and takes precedence over both the
	// environment and the configuration file.
	Verbose bool
	Format  string
}

// ParseLevel accepts slog level names ("debug", "info", "warn", "error"),
// optionally with an offset such as "debug-4".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return level, nil
}

// initialLevel resolves the startup level: verbose, then LOG_LEVEL, then info.
func initialLevel(opts Options) (slog.Level, bool) {
	if opts.Verbose {
		return slog.LevelDebug, true
	}
	if env := os.Getenv(EnvLevel); env != "" {
		if level, err := ParseLevel(env); err == nil {
			return level, true
		}
	}
	return slog.LevelInfo, false
}
