package bootkit

import (
	"sync"
	"sync/atomic"
)

const (
	msgRebooted       = "applications can't be rebooted (yet)"
	msgNotInitialized = "application state accessed before it has been initialized"
	msgPoisoned       = "application state corrupted by unhandled crash"
)

// Cell holds the one live application of a process behind a reader/writer
// lock. It is set exactly once. Declare one per program:
//
//	var app = bootkit.NewCell[*bootkit.StdApplication[Config]]()
//
// Tests can create their own cells instead of sharing a global.
type Cell[A any] struct {
	mu       sync.RWMutex
	app      A
	set      atomic.Bool
	poisoned atomic.Bool
}

// NewCell creates an empty cell.
func NewCell[A any]() *Cell[A] {
	return &Cell[A]{}
}

// SetOnce stores app. It panics if the cell is already set.
func (c *Cell[A]) SetOnce(app A) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.set.Load() {
		panic(msgRebooted)
	}
	c.app = app
	c.set.Store(true)
}

// IsSet reports whether SetOnce has been called.
func (c *Cell[A]) IsSet() bool {
	return c.set.Load()
}

// Read calls fn with shared access to the application. Readers run
// concurrently with each other but never with a writer.
func (c *Cell[A]) Read(fn func(A)) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.check()
	fn(c.app)
}

// Write calls fn with exclusive access to the application. If fn panics
// the cell is poisoned and every later Read or Write panics.
func (c *Cell[A]) Write(fn func(A)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.check()
	defer func() {
		if r := recover(); r != nil {
			c.poisoned.Store(true)
			panic(r)
		}
	}()
	fn(c.app)
}

func (c *Cell[A]) check() {
	if !c.set.Load() {
		panic(msgNotInitialized)
	}
	if c.poisoned.Load() {
		panic(msgPoisoned)
	}
}
