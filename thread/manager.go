// Package thread tracks the application's named background goroutines so
// they can be asked to terminate and joined on shutdown.
package thread

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/GoCodeAlone/bootkit/component"
)

// Static errors for the thread package
var (
	// ErrThread is the kind shared by every thread manager failure.
	ErrThread = errors.New("thread error")

	ErrDuplicateName = fmt.Errorf("%w: duplicate name", ErrThread)
	ErrJoined        = fmt.Errorf("%w: manager already joined", ErrThread)
	ErrPanicked      = fmt.Errorf("%w: goroutine panicked", ErrThread)
)

// Func is the body of a managed goroutine. It should return once ctx is
// done; returning ctx.Err() is not treated as a failure.
type Func func(ctx context.Context) error

// Manager runs named goroutines. The first goroutine to fail cancels the
// context of all the others.
type Manager struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	names  []string
	joined bool
	logger component.Logger
}

// NewManager creates a manager whose goroutines are cancelled when parent is.
func NewManager(parent context.Context, logger component.Logger) *Manager {
	if logger == nil {
		logger = component.NopLogger{}
	}
	ctx, cancel := context.WithCancel(parent)
	group, ctx := errgroup.WithContext(ctx)
	return &Manager{ctx: ctx, cancel: cancel, group: group, logger: logger}
}

// SetLogger replaces the manager's logger for goroutines spawned afterwards.
// A nil logger discards output.
func (m *Manager) SetLogger(logger component.Logger) {
	if logger == nil {
		logger = component.NopLogger{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// Spawn starts fn in a goroutine named name. Names must be unique.
func (m *Manager) Spawn(name string, fn Func) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.joined {
		return ErrJoined
	}
	if slices.Contains(m.names, name) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	m.names = append(m.names, name)

	ctx, logger := m.ctx, m.logger
	m.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %s: %v", ErrPanicked, name, r)
				logger.Error("Thread panicked", "thread", name, "panic", r)
			}
		}()

		logger.Debug("Thread started", "thread", name)
		err = fn(ctx)
		if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
			err = nil
		}
		if err != nil {
			logger.Error("Thread failed", "thread", name, "error", err)
			return fmt.Errorf("%w: %s: %w", ErrThread, name, err)
		}
		logger.Debug("Thread finished", "thread", name)
		return nil
	})
	return nil
}

// Names returns the names of every goroutine spawned so far.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.names)
}

// Len returns the number of goroutines spawned so far.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.names)
}

// Done is closed once termination has been requested or a goroutine failed.
func (m *Manager) Done() <-chan struct{} {
	return m.ctx.Done()
}

// RequestTermination cancels every goroutine's context without waiting.
func (m *Manager) RequestTermination() {
	m.cancel()
}

// Join requests termination and waits for every goroutine. It returns the
// first failure. Later calls return the same result without waiting again.
func (m *Manager) Join() error {
	m.mu.Lock()
	m.joined = true
	m.mu.Unlock()

	m.cancel()
	return m.group.Wait()
}
