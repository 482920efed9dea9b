package thread

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerJoinRequestsTermination(t *testing.T) {
	m := NewManager(context.Background(), nil)
	var stopped atomic.Int32

	for _, name := range []string{"signals", "ticker"} {
		require.NoError(t, m.Spawn(name, func(ctx context.Context) error {
			<-ctx.Done()
			stopped.Add(1)
			return ctx.Err()
		}))
	}
	assert.Equal(t, []string{"signals", "ticker"}, m.Names())
	assert.Equal(t, 2, m.Len())

	require.NoError(t, m.Join())
	assert.Equal(t, int32(2), stopped.Load())
}

func TestManagerDuplicateName(t *testing.T) {
	m := NewManager(context.Background(), nil)
	noop := func(context.Context) error { return nil }

	require.NoError(t, m.Spawn("worker", noop))
	err := m.Spawn("worker", noop)
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.ErrorIs(t, err, ErrThread)
	require.NoError(t, m.Join())
}

func TestManagerSpawnAfterJoin(t *testing.T) {
	m := NewManager(context.Background(), nil)
	require.NoError(t, m.Join())
	assert.ErrorIs(t, m.Spawn("late", func(context.Context) error { return nil }), ErrJoined)
}

func TestManagerFailureCancelsOthers(t *testing.T) {
	m := NewManager(context.Background(), nil)
	boom := errors.New("boom")

	require.NoError(t, m.Spawn("waiter", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}))
	require.NoError(t, m.Spawn("failer", func(context.Context) error {
		return boom
	}))

	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("failure did not cancel the manager")
	}

	err := m.Join()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failer")
}

func TestManagerRecoversPanics(t *testing.T) {
	m := NewManager(context.Background(), nil)
	require.NoError(t, m.Spawn("panicky", func(context.Context) error {
		panic("oops")
	}))

	err := m.Join()
	require.ErrorIs(t, err, ErrPanicked)
	assert.Contains(t, err.Error(), "oops")
}

func TestManagerParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(parent, nil)
	done := make(chan struct{})

	require.NoError(t, m.Spawn("child", func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return nil
	}))

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("parent cancellation did not reach the goroutine")
	}
	assert.NoError(t, m.Join())
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf("%s %s %v", level, msg, args))
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args...) }

func (l *recordingLogger) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func TestManagerSetLoggerReportsFailures(t *testing.T) {
	m := NewManager(context.Background(), nil)
	logger := &recordingLogger{}
	m.SetLogger(logger)

	require.NoError(t, m.Spawn("failer", func(context.Context) error {
		return errors.New("disk full")
	}))
	require.NoError(t, m.Spawn("panicky", func(context.Context) error {
		panic("oops")
	}))
	require.Error(t, m.Join())

	entries := logger.list()
	assert.Contains(t, entries, "ERROR Thread failed [thread failer error disk full]")
	assert.Contains(t, entries, "ERROR Thread panicked [thread panicky panic oops]")

	m.SetLogger(nil)
}
