// Package signal turns OS signals into application shutdown requests. The
// Handler component listens on a managed goroutine and passes every signal
// to a dispatch function supplied by the application.
package signal

import (
	"context"
	"errors"
	"fmt"
	"os"
	ossignal "os/signal"
	"sync"
	"syscall"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/thread"
)

// ThreadName is the name of the listener goroutine.
const ThreadName = "bootkit::signal"

// Static errors for the signal package
var (
	// ErrSignal is the kind shared by signal handling failures.
	ErrSignal = errors.New("signal error")

	ErrAlreadyStarted = fmt.Errorf("%w: handler already started", ErrSignal)
	ErrNoSignals      = fmt.Errorf("%w: no signals to handle", ErrSignal)
)

// ComponentID is the identifier the Handler component registers under.
var ComponentID = component.TypeID[Handler]()

// DefaultSignals are handled when New is given none.
var DefaultSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// Handler is the signal handling component.
type Handler struct {
	mu      sync.Mutex
	signals []os.Signal
	notify  func(chan<- os.Signal, ...os.Signal)
	stop    func(chan<- os.Signal)
	ch      chan os.Signal
	started bool
}

// New creates a Handler for the given signals, or DefaultSignals.
func New(signals ...os.Signal) *Handler {
	if len(signals) == 0 {
		signals = DefaultSignals
	}
	return &Handler{signals: signals, notify: ossignal.Notify, stop: ossignal.Stop}
}

// WithNotify replaces os/signal.Notify and Stop, for tests.
func (h *Handler) WithNotify(notify func(chan<- os.Signal, ...os.Signal), stop func(chan<- os.Signal)) *Handler {
	h.notify = notify
	h.stop = stop
	return h
}

// ID implements component.Component
func (h *Handler) ID() component.ID {
	return ComponentID
}

// Version implements component.Component
func (h *Handler) Version() component.Version {
	return component.FrameworkVersion
}

// Signals returns the handled signals.
func (h *Handler) Signals() []os.Signal {
	return h.signals
}

// Start subscribes to the signals and spawns the listener on threads. Each
// received signal is passed to dispatch, one at a time.
func (h *Handler) Start(threads *thread.Manager, dispatch func(os.Signal)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return ErrAlreadyStarted
	}
	if len(h.signals) == 0 {
		return ErrNoSignals
	}

	ch := make(chan os.Signal, 1)
	h.notify(ch, h.signals...)

	err := threads.Spawn(ThreadName, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case sig := <-ch:
				dispatch(sig)
			}
		}
	})
	if err != nil {
		h.stop(ch)
		return fmt.Errorf("%w: %w", ErrSignal, err)
	}

	h.ch = ch
	h.started = true
	return nil
}

// BeforeShutdown unsubscribes from the signals so a further interrupt
// reaches the default handler.
func (h *Handler) BeforeShutdown(component.Shutdown) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ch != nil {
		h.stop(h.ch)
		h.ch = nil
	}
	return nil
}
