package bootkit

import (
	"io"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/signal"
	"github.com/GoCodeAlone/bootkit/terminal"
)

// ConfigLoader reads the file at path into target.
type ConfigLoader func(path string, target any) (*config.Document, error)

// Option configures a StdApplication.
type Option func(*options)

type options struct {
	components []component.Component
	logger     component.Logger
	observers  []Observer
	loader     ConfigLoader
	colors     terminal.ColorChoice
	signals    *signal.Handler
	stdout     io.Writer
	stderr     io.Writer
	paths      *Paths
	envPrefix  *string
	exit       func(int)
}

// WithComponents adds application components to the registration batch,
// after the framework's own components.
func WithComponents(components ...component.Component) Option {
	return func(o *options) {
		o.components = append(o.components, components...)
	}
}

// WithLogger replaces the Logging component as the framework's logger.
func WithLogger(logger component.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObservers registers lifecycle event observers.
func WithObservers(observers ...Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, observers...)
	}
}

// WithConfigLoader replaces config.LoadFile.
func WithConfigLoader(loader ConfigLoader) Option {
	return func(o *options) {
		o.loader = loader
	}
}

// WithTermColors sets the terminal color choice.
func WithTermColors(choice terminal.ColorChoice) Option {
	return func(o *options) {
		o.colors = choice
	}
}

// WithSignals registers a signal handler component. Signals are routed to
// the application through its Cell.
func WithSignals(handler *signal.Handler) Option {
	return func(o *options) {
		o.signals = handler
	}
}

// WithOutput redirects the terminal's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithPaths skips resolving paths from the running executable.
func WithPaths(paths Paths) Option {
	return func(o *options) {
		o.paths = &paths
	}
}

// WithEnvPrefix enables environment overrides of `env` tagged configuration
// fields, read from PREFIX_NAME.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = &prefix
	}
}

// WithExitFunc replaces os.Exit for forced shutdowns.
func WithExitFunc(exit func(int)) Option {
	return func(o *options) {
		o.exit = exit
	}
}
