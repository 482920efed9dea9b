package bootkit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/GoCodeAlone/bootkit/command"
	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/logging"
	"github.com/GoCodeAlone/bootkit/terminal"
	"github.com/GoCodeAlone/bootkit/thread"
)

// Application is the lifecycle an application goes through. Run and Boot
// drive it; StdApplication implements it for any configuration type.
type Application interface {
	Name() string
	Status() Status
	State() *State
	Terminal() *terminal.Terminal

	// RegisterComponents registers the framework's components and the
	// application's own in a single batch.
	RegisterComponents(cmd command.Command) error

	// AfterConfig hands the loaded configuration to every component and
	// then injects their dependencies.
	AfterConfig(cfg config.Provider) error

	// Init registers components, loads configuration and runs AfterConfig.
	Init(cmd command.Command) error

	// Run executes the command.
	Run(cmd command.Command) error

	// Shutdown tears components down in reverse registration order. Only
	// the first call has an effect.
	Shutdown(kind component.Shutdown) error

	// HandleSignal reacts to an OS signal. It is called with the
	// application's Cell locked for writing.
	HandleSignal(sig os.Signal)
}

// StdApplication is the standard Application, with configuration of type C.
type StdApplication[C any] struct {
	name   string
	opts   options
	status atomic.Int32

	state      *State
	cfg        *C
	provider   *config.StdProvider
	configured atomic.Bool

	terminal *terminal.Terminal
	logging  *logging.Logging
	logger   component.Logger

	ctx    context.Context
	cancel context.CancelFunc

	observersMu sync.RWMutex
	observers   []Observer

	signals      int
	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates an application named name. Nothing is registered or loaded
// until Init.
func New[C any](name string, opts ...Option) *StdApplication[C] {
	o := options{loader: config.LoadFile, exit: os.Exit}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	logger := o.logger
	if logger == nil {
		logger = component.NopLogger{}
	}

	return &StdApplication[C]{
		name: name,
		opts: o,
		state: &State{
			Components: component.NewRegistry(logger),
			Threads:    thread.NewManager(context.Background(), logger),
			RunID:      newRunID(),
		},
		terminal:  terminal.New(o.colors, o.stdout, o.stderr),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		observers: o.observers,
	}
}

// Name returns the application name.
func (app *StdApplication[C]) Name() string {
	return app.name
}

// Status returns the current lifecycle stage.
func (app *StdApplication[C]) Status() Status {
	return Status(app.status.Load())
}

// State returns the registry, paths and thread manager.
func (app *StdApplication[C]) State() *State {
	return app.state
}

// Terminal returns the terminal component.
func (app *StdApplication[C]) Terminal() *terminal.Terminal {
	return app.terminal
}

// Components returns the component registry.
func (app *StdApplication[C]) Components() *component.Registry {
	return app.state.Components
}

// Logger returns the framework logger.
func (app *StdApplication[C]) Logger() component.Logger {
	return app.logger
}

// Context is cancelled when the application is asked to stop.
func (app *StdApplication[C]) Context() context.Context {
	return app.ctx
}

// Config returns the loaded configuration. It panics if called before the
// application is configured.
func (app *StdApplication[C]) Config() *C {
	if !app.configured.Load() {
		panic("configuration accessed before being loaded")
	}
	return app.cfg
}

// ConfigProvider returns the provider handed to components, or nil before
// the configuration is loaded.
func (app *StdApplication[C]) ConfigProvider() config.Provider {
	if app.provider == nil {
		return nil
	}
	return app.provider
}

// RegisterObserver adds a lifecycle event observer.
func (app *StdApplication[C]) RegisterObserver(observer Observer) {
	app.observersMu.Lock()
	defer app.observersMu.Unlock()
	app.observers = append(app.observers, observer)
}

// Init implements Application
func (app *StdApplication[C]) Init(cmd command.Command) error {
	if app.Status() != StatusUninitialized {
		return ErrAlreadyInitialized
	}

	if app.opts.paths != nil {
		app.state.Paths = *app.opts.paths
	} else {
		paths, err := DefaultPaths()
		if err != nil {
			return err
		}
		app.state.Paths = paths
	}

	if err := app.RegisterComponents(cmd); err != nil {
		return err
	}

	cfg, doc, err := app.loadConfig(cmd.ConfigPath())
	if err != nil {
		return err
	}

	if processor, ok := cmd.(command.ConfigProcessor); ok {
		if err := processor.ProcessConfig(cfg); err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}

	app.cfg = cfg
	app.provider = config.NewStdProvider(cfg, doc)
	return app.AfterConfig(app.provider)
}

// RegisterComponents implements Application
func (app *StdApplication[C]) RegisterComponents(cmd command.Command) error {
	app.logging = logging.New(logging.Options{Verbose: cmd.Verbose()}, nil)

	components := []component.Component{app.terminal, app.logging}
	if app.opts.signals != nil {
		components = append(components, app.opts.signals)
	}
	components = append(components, app.opts.components...)

	if app.opts.logger == nil {
		app.logger = app.logging
		app.state.Components.SetLogger(app.logging)
		app.state.Threads.SetLogger(app.logging)
	}

	if err := app.state.Components.Register(components...); err != nil {
		return err
	}

	for _, c := range app.state.Components.All() {
		app.emit(EventTypeComponentRegistered, component.Describe(c))
	}
	app.setStatus(StatusComponentsRegistered, EventTypeComponentsRegistered)
	return nil
}

// AfterConfig implements Application
func (app *StdApplication[C]) AfterConfig(cfg config.Provider) error {
	if err := app.state.Components.AfterConfig(cfg); err != nil {
		return err
	}
	app.configured.Store(true)
	app.setStatus(StatusConfigured, EventTypeConfigured)
	return nil
}

// loadConfig reads path into a new C. Without a path the configuration is
// default-constructed and the loader is not called.
func (app *StdApplication[C]) loadConfig(path string) (*C, *config.Document, error) {
	cfg := new(C)
	var doc *config.Document

	if path == "" {
		app.logger.Debug("No configuration file, using defaults")
		if err := config.ProcessDefaults(cfg); err != nil && !errors.Is(err, config.ErrConfigNotStruct) {
			return nil, nil, err
		}
	} else {
		var err error
		if doc, err = app.opts.loader(path, cfg); err != nil {
			return nil, nil, err
		}
		app.logger.Info("Loaded configuration", "path", path)
		app.emit(EventTypeConfigLoaded, map[string]any{"path": path})
	}

	if app.opts.envPrefix != nil {
		if err := config.NewEnvFeeder(*app.opts.envPrefix).Feed(cfg); err != nil && !errors.Is(err, config.ErrEnvInvalidStructure) {
			return nil, nil, err
		}
	}

	return cfg, doc, nil
}

// Run implements Application. A command that stops because the application
// context was cancelled has completed normally.
func (app *StdApplication[C]) Run(cmd command.Command) error {
	if !app.configured.Load() {
		return ErrNotConfigured
	}

	app.setStatus(StatusRunning, EventTypeRunning)
	err := cmd.Run(app.ctx)
	if err != nil && errors.Is(err, context.Canceled) && app.ctx.Err() != nil {
		return nil
	}
	return err
}

// Shutdown implements Application
func (app *StdApplication[C]) Shutdown(kind component.Shutdown) error {
	app.shutdownOnce.Do(func() {
		app.setStatus(StatusShuttingDown, EventTypeShuttingDown)
		app.cancel()

		app.logger.Info("Shutting down", "kind", kind)
		app.shutdownErr = app.state.Components.Shutdown(kind)

		if app.shutdownErr != nil {
			app.emit(EventTypeFailed, map[string]any{"error": app.shutdownErr.Error()})
		}
		app.setStatus(StatusTerminated, EventTypeTerminated)
	})
	return app.shutdownErr
}

// HandleSignal implements Application. The first signal cancels the
// command's context and shuts the components down gracefully, whether or
// not the command has returned yet. A second signal forces shutdown and
// exits with status 1.
func (app *StdApplication[C]) HandleSignal(sig os.Signal) {
	status := app.Status()
	if app.signals == 0 && status != StatusConfigured && status != StatusRunning {
		app.logger.Debug("Ignoring signal", "signal", sig, "status", status)
		return
	}

	app.signals++
	app.emit(EventTypeSignalReceived, map[string]any{"signal": sig.String(), "count": app.signals})

	if app.signals == 1 {
		app.logger.Info("Received signal, shutting down", "signal", sig)
		if err := app.Shutdown(component.ShutdownGraceful); err != nil {
			app.logger.Error("Graceful shutdown failed", "error", err)
		}
		return
	}

	app.logger.Warn("Received repeated signal, forcing shutdown", "signal", sig)
	if err := app.Shutdown(component.ShutdownForced); err != nil {
		app.terminal.Fatal(app.name, err)
	}
	app.opts.exit(1)
}

func (app *StdApplication[C]) setStatus(status Status, eventType string) {
	app.status.Store(int32(status))
	app.logger.Debug("Application status changed", "status", status)
	app.emit(eventType, map[string]any{"status": status.String()})
}

func (app *StdApplication[C]) emit(eventType string, data any) {
	app.observersMu.RLock()
	observers := app.observers
	app.observersMu.RUnlock()
	if len(observers) == 0 {
		return
	}

	event := NewCloudEvent(eventType, "bootkit/"+app.name, data, map[string]any{"runid": app.state.RunID.String()})
	for _, o := range observers {
		if err := o.OnEvent(context.Background(), event); err != nil {
			app.logger.Warn("Observer failed", "observer", o.ObserverID(), "event", eventType, "error", err)
		}
	}
}
