package admin

import (
	"fmt"
	"time"
)

// SectionName is the configuration table read by the admin component.
const SectionName = "admin"

// Config is the [admin] configuration section.
//
//	[admin]
//	address = "127.0.0.1:9090"
//	shutdown_timeout = "5s"
type Config struct {
	// Address is the listen address of the introspection server.
	Address string `toml:"address" yaml:"address" default:"127.0.0.1:9090"`

	// ReadHeaderTimeout bounds how long reading request headers may take.
	ReadHeaderTimeout time.Duration `toml:"read_header_timeout" yaml:"read_header_timeout" default:"5s"`

	// ShutdownTimeout bounds a graceful shutdown of the server.
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout" default:"5s"`
}

// Validate implements config.Validator
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidConfig)
	}
	if c.ShutdownTimeout < 0 || c.ReadHeaderTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidConfig)
	}
	return nil
}
