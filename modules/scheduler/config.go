package scheduler

import (
	"fmt"
	"time"
)

// SectionName is the configuration table read by the scheduler component.
const SectionName = "scheduler"

// Config is the [scheduler] configuration section.
//
//	[scheduler]
//	timezone = "Europe/Paris"
//	disabled = ["reindex"]
type Config struct {
	// Timezone is the IANA location cron expressions are evaluated in.
	Timezone string `toml:"timezone" yaml:"timezone" default:"Local"`

	// Disabled lists job names that are not scheduled.
	Disabled []string `toml:"disabled" yaml:"disabled"`

	// ShutdownTimeout bounds how long a graceful shutdown waits for
	// running jobs.
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout" default:"30s"`
}

// Validate implements config.Validator
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative shutdown timeout", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
