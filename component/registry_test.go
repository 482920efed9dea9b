package component

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/bootkit/config"
)

// recorder collects lifecycle callbacks across components in call order.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) index(event string) int {
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

type testComponent struct {
	id           ID
	deps         []ID
	rec          *recorder
	configured   int
	received     map[ID]int
	shutdownErr  error
	configErr    error
	shutdownKind Shutdown
}

func newTestComponent(rec *recorder, id ID, deps ...ID) *testComponent {
	return &testComponent{id: id, deps: deps, rec: rec, received: make(map[ID]int)}
}

func (c *testComponent) ID() ID           { return c.id }
func (c *testComponent) Version() Version { return "1.0.0" }
func (c *testComponent) Dependencies() []ID {
	return c.deps
}

func (c *testComponent) AfterConfig(config.Provider) error {
	c.configured++
	c.rec.add("config %s", c.id)
	return c.configErr
}

func (c *testComponent) RegisterDependency(h Handle, dep Component) error {
	if h.ID() != dep.ID() {
		return errors.New("handle does not match dependency")
	}
	peer, ok := dep.(*testComponent)
	if !ok || peer.configured != 1 {
		return fmt.Errorf("dependency %s not configured", dep.ID())
	}
	c.received[dep.ID()]++
	c.rec.add("inject %s <- %s", c.id, dep.ID())
	return nil
}

func (c *testComponent) BeforeShutdown(kind Shutdown) error {
	c.shutdownKind = kind
	c.rec.add("shutdown %s", c.id)
	return c.shutdownErr
}

// plain implements only Component.
type plain struct{ id ID }

func (p plain) ID() ID           { return p.id }
func (p plain) Version() Version { return FrameworkVersion }

func TestRegisterIndependentComponents(t *testing.T) {
	rec := &recorder{}
	logging := newTestComponent(rec, "logging")
	terminal := newTestComponent(rec, "terminal")

	r := NewRegistry(nil)
	require.NoError(t, r.Register(logging, terminal))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []ID{"logging", "terminal"}, r.IDs(), "unrelated components keep input order")

	require.NoError(t, r.AfterConfig(config.NewStdProvider(nil, nil)))
	assert.Equal(t, 1, logging.configured)
	assert.Equal(t, 1, terminal.configured)

	require.NoError(t, r.Shutdown(ShutdownGraceful))
	assert.Equal(t, 1, countPrefix(rec.events, "shutdown logging"))
	assert.Equal(t, 1, countPrefix(rec.events, "shutdown terminal"))
}

func countPrefix(events []string, event string) int {
	n := 0
	for _, e := range events {
		if e == event {
			n++
		}
	}
	return n
}

func TestRegisterOrdersDependencies(t *testing.T) {
	rec := &recorder{}
	quux := newTestComponent(rec, "quux", "foobar", "baz")
	foobar := newTestComponent(rec, "foobar")
	baz := newTestComponent(rec, "baz")

	r := NewRegistry(nil)
	require.NoError(t, r.Register(quux, foobar, baz))
	assert.Equal(t, []ID{"foobar", "baz", "quux"}, r.IDs())

	require.NoError(t, r.AfterConfig(config.NewStdProvider(nil, nil)))
	assert.Equal(t, map[ID]int{"foobar": 1, "baz": 1}, quux.received)

	lastConfig := rec.index("config quux")
	firstInject := rec.index("inject quux <- foobar")
	require.NotEqual(t, -1, firstInject)
	assert.Less(t, lastConfig, firstInject, "every component is configured before any injection")
	assert.Less(t, rec.index("inject quux <- foobar"), rec.index("inject quux <- baz"))
}

func TestRegisterTransitiveChain(t *testing.T) {
	rec := &recorder{}
	c := newTestComponent(rec, "c", "b")
	b := newTestComponent(rec, "b", "a")
	a := newTestComponent(rec, "a")
	x := newTestComponent(rec, "x")

	r := NewRegistry(nil)
	require.NoError(t, r.Register(c, x, b, a))
	assert.Equal(t, []ID{"x", "a", "b", "c"}, r.IDs())

	require.NoError(t, r.Shutdown(ShutdownGraceful))
	assert.Less(t, rec.index("shutdown c"), rec.index("shutdown b"))
	assert.Less(t, rec.index("shutdown b"), rec.index("shutdown a"))
}

func TestRegisterMutualDependency(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry(nil)

	err := r.Register(newTestComponent(rec, "a", "b"), newTestComponent(rec, "b", "a"))
	require.ErrorIs(t, err, ErrComponentOrder)
	assert.ErrorIs(t, err, ErrComponent)
	assert.Contains(t, err.Error(), "a and b")
	assert.True(t, r.IsEmpty())

	_, ok := r.GetByID("a")
	assert.False(t, ok)
}

func TestRegisterLongerCycle(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry(nil)

	err := r.Register(
		newTestComponent(rec, "root"),
		newTestComponent(rec, "a", "c", "root"),
		newTestComponent(rec, "b", "a"),
		newTestComponent(rec, "c", "b"),
		newTestComponent(rec, "leaf", "c"),
	)
	require.ErrorIs(t, err, ErrComponentOrder)
	assert.Contains(t, err.Error(), "a -> c -> b -> a")
	assert.True(t, r.IsEmpty())
}

func TestRegisterSelfDependency(t *testing.T) {
	r := NewRegistry(nil)
	err := r.Register(newTestComponent(&recorder{}, "a", "a"))
	assert.ErrorIs(t, err, ErrSelfDependency)
	assert.True(t, r.IsEmpty())
}

func TestRegisterDuplicateID(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry(nil)

	err := r.Register(newTestComponent(rec, "other"), newTestComponent(rec, "x"), newTestComponent(rec, "x"))
	require.ErrorIs(t, err, ErrDuplicateComponent)
	assert.Contains(t, err.Error(), "x")
	assert.Equal(t, 0, r.Len(), "no member of a rejected batch is kept")
}

func TestRegisterNil(t *testing.T) {
	r := NewRegistry(nil)
	assert.ErrorIs(t, r.Register(plain{"a"}, nil), ErrNilComponent)
	assert.True(t, r.IsEmpty())
}

func TestRegisterTwice(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry(nil)
	require.NoError(t, r.Register(newTestComponent(rec, "b", "a"), newTestComponent(rec, "a")))
	before := r.IDs()

	err := r.Register(newTestComponent(rec, "c"))
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, before, r.IDs())
	assert.Equal(t, 2, r.Len())
}

func TestRegisterEmptyBatchOnlyOnce(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register())
	assert.True(t, r.IsEmpty())

	err := r.Register(plain{"late"})
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.True(t, r.IsEmpty())
}

func TestRegisterAfterRejectedBatch(t *testing.T) {
	r := NewRegistry(nil)
	require.ErrorIs(t, r.Register(plain{"a"}, plain{"a"}), ErrDuplicateComponent)
	require.NoError(t, r.Register(plain{"a"}))
	assert.Equal(t, []ID{"a"}, r.IDs())
}

func TestAfterConfigUnregisteredDependency(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry(nil)
	a := newTestComponent(rec, "a", "missing")
	require.NoError(t, r.Register(a))

	err := r.AfterConfig(config.NewStdProvider(nil, nil))
	require.ErrorIs(t, err, ErrUnregisteredDependency)
	assert.ErrorIs(t, err, ErrComponent)
	assert.ErrorIs(t, err, config.ErrConfig)
	assert.Contains(t, err.Error(), "missing")
	assert.Equal(t, 0, a.configured)
}

func TestAfterConfigOnce(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(plain{"a"}))
	require.NoError(t, r.AfterConfig(nil))
	assert.True(t, r.Configured())
	assert.ErrorIs(t, r.AfterConfig(nil), ErrAlreadyConfigured)
}

func TestAfterConfigPropagatesComponentError(t *testing.T) {
	rec := &recorder{}
	failing := newTestComponent(rec, "failing")
	failing.configErr = errors.New("bad config")

	r := NewRegistry(nil)
	require.NoError(t, r.Register(failing))

	err := r.AfterConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
	assert.Contains(t, err.Error(), "bad config")
}

func TestShutdownContinuesPastFailures(t *testing.T) {
	rec := &recorder{}
	a := newTestComponent(rec, "a")
	b := newTestComponent(rec, "b", "a")
	c := newTestComponent(rec, "c", "b")
	c.shutdownErr = errors.New("c failed")
	b.shutdownErr = errors.New("b failed")

	r := NewRegistry(nil)
	require.NoError(t, r.Register(a, b, c, plain{"plain"}))

	err := r.Shutdown(ShutdownForced)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c failed", "first failure is returned")
	assert.Equal(t, []string{"shutdown c", "shutdown b", "shutdown a"}, rec.events)
	assert.Equal(t, ShutdownForced, a.shutdownKind)
}

func TestLookups(t *testing.T) {
	rec := &recorder{}
	a := newTestComponent(rec, "a")
	r := NewRegistry(nil)
	require.NoError(t, r.Register(plain{"p"}, a))

	h, ok := r.HandleByID("a")
	require.True(t, ok)
	assert.Equal(t, ID("a"), h.ID())
	assert.False(t, h.IsZero())

	got, ok := r.Get(h)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Get(Handle{id: "p", index: h.index})
	assert.False(t, ok, "handle ID must match the stored component")

	_, ok = r.HandleByID("nope")
	assert.False(t, ok)

	typed, ok := Lookup[*testComponent](r)
	require.True(t, ok)
	assert.Same(t, a, typed)

	p, ok := Lookup[plain](r)
	require.True(t, ok)
	assert.Equal(t, ID("p"), p.id)

	aware, ok := Lookup[ShutdownAware](r)
	require.True(t, ok)
	assert.Same(t, a, aware)

	_, ok = Lookup[*Injector](r)
	assert.False(t, ok)

	var seen []ID
	for h, c := range r.All() {
		assert.Equal(t, h.ID(), c.ID())
		seen = append(seen, c.ID())
	}
	assert.Equal(t, []ID{"p", "a"}, seen)
}

func TestDescriptors(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry(nil)
	require.NoError(t, r.Register(newTestComponent(rec, "b", "a"), newTestComponent(rec, "a")))

	assert.Equal(t, []Descriptor{
		{ID: "a", Version: "1.0.0"},
		{ID: "b", Version: "1.0.0", Dependencies: []ID{"a"}},
	}, r.Descriptors())
}
