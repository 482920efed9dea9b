// Package logging provides the framework's structured logger, backed by
// log/slog, and the Logging component that configures it.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/terminal"
)

// ComponentID is the identifier the Logging component registers under.
var ComponentID = component.TypeID[Logging]()

// Logging is the framework logging component. It satisfies
// component.Logger, so it can be handed to the registry and to any
// component that wants a logger.
//
// Output goes to os.Stderr until the terminal component is injected, after
// which it goes to the terminal's stderr stream.
type Logging struct {
	component.Injector

	level      slog.LevelVar
	levelFixed bool
	addSource  bool
	format     string
	out        switchWriter
	logger     atomic.Pointer[slog.Logger]
}

// New creates the Logging component writing to w, or os.Stderr if w is nil.
func New(opts Options, w io.Writer) *Logging {
	if w == nil {
		w = os.Stderr
	}

	l := &Logging{format: opts.Format}
	l.out.set(w)
	level, fixed := initialLevel(opts)
	l.level.Set(level)
	l.levelFixed = fixed
	if l.format == "" {
		l.format = "text"
	}
	l.rebuild()

	component.Inject(&l.Injector, terminal.ComponentID, func(_ component.Handle, t *terminal.Terminal) error {
		l.out.set(t.Stderr())
		return nil
	})
	return l
}

// ID implements component.Component
func (l *Logging) ID() component.ID {
	return ComponentID
}

// Version implements component.Component
func (l *Logging) Version() component.Version {
	return component.FrameworkVersion
}

// AfterConfig applies the "logging" section. A level given by the verbose
// flag or LOG_LEVEL is kept.
func (l *Logging) AfterConfig(cfg config.Provider) error {
	if cfg == nil {
		return nil
	}
	var section Config
	if err := cfg.Section("logging", &section); err != nil {
		if errors.Is(err, config.ErrSectionNotFound) {
			return nil
		}
		return fmt.Errorf("logging: %w", err)
	}

	if section.Level != "" && !l.levelFixed {
		level, err := ParseLevel(section.Level)
		if err != nil {
			return err
		}
		l.level.Set(level)
	}

	switch strings.ToLower(section.Format) {
	case "text", "json":
		l.format = strings.ToLower(section.Format)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, section.Format)
	}
	l.addSource = section.AddSource
	l.rebuild()

	return nil
}

// Level returns the current minimum level.
func (l *Logging) Level() slog.Level {
	return l.level.Level()
}

// SetLevel changes the minimum level.
func (l *Logging) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Slog returns the underlying slog logger.
func (l *Logging) Slog() *slog.Logger {
	return l.logger.Load()
}

// Debug implements component.Logger
func (l *Logging) Debug(msg string, args ...any) {
	l.logger.Load().Debug(msg, args...)
}

// Info implements component.Logger
func (l *Logging) Info(msg string, args ...any) {
	l.logger.Load().Info(msg, args...)
}

// Warn implements component.Logger
func (l *Logging) Warn(msg string, args ...any) {
	l.logger.Load().Warn(msg, args...)
}

// Error implements component.Logger
func (l *Logging) Error(msg string, args ...any) {
	l.logger.Load().Error(msg, args...)
}

func (l *Logging) rebuild() {
	opts := &slog.HandlerOptions{Level: &l.level, AddSource: l.addSource}

	var handler slog.Handler
	if l.format == "json" {
		handler = slog.NewJSONHandler(&l.out, opts)
	} else {
		handler = slog.NewTextHandler(&l.out, opts)
	}
	l.logger.Store(slog.New(handler))
}

// switchWriter forwards writes to a destination that can be replaced while
// loggers hold on to it.
type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	w := s.w
	s.mu.RUnlock()
	return w.Write(p)
}
