package component

import (
	"fmt"
	"iter"
	"reflect"
	"slices"

	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/internal/arena"
)

// Registry owns every component of an application. It is populated once by
// Register, configured once by AfterConfig and torn down by Shutdown.
//
// A Registry is not safe for concurrent use; applications guard it with the
// application cell's lock.
type Registry struct {
	components *arena.Arena[Component]
	order      []arena.Index
	byID       map[ID]arena.Index
	byType     map[reflect.Type]arena.Index
	registered bool
	configured bool
	logger     Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger Logger) *Registry {
	r := &Registry{
		components: arena.New[Component](0),
		byID:       make(map[ID]arena.Index),
		byType:     make(map[reflect.Type]arena.Index),
	}
	r.SetLogger(logger)
	return r
}

// SetLogger replaces the registry's logger.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	r.logger = logger
}

// Register adds a batch of components, sorted so that every component comes
// after the components it depends on. It fails if anything was registered
// before, if two components share an ID, or if components depend on each
// other. On failure nothing from the batch is registered and Register may be
// called again; after a successful call, even with an empty batch, it may not.
func (r *Registry) Register(components ...Component) error {
	if r.registered {
		return fmt.Errorf("%w: %d components present", ErrAlreadyRegistered, r.Len())
	}

	seen := make(map[ID]int, len(components))
	deps := make([][]ID, len(components))
	for i, c := range components {
		if c == nil {
			return fmt.Errorf("%w: position %d", ErrNilComponent, i)
		}
		id := c.ID()
		if first, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s (positions %d and %d)", ErrDuplicateComponent, id, first, i)
		}
		seen[id] = i
		deps[i] = dependenciesOf(c)
	}

	order, err := sortByDependencies(components, deps)
	if err != nil {
		return err
	}

	r.registered = true
	r.order = make([]arena.Index, 0, len(order))
	for _, i := range order {
		c := components[i]
		index := r.components.Insert(c)
		r.order = append(r.order, index)
		r.byID[c.ID()] = index

		t := reflect.TypeOf(c)
		if _, exists := r.byType[t]; !exists {
			r.byType[t] = index
		}

		r.logger.Debug("Registered component", "component", c.ID(), "version", c.Version(), "dependencies", deps[i])
	}

	return nil
}

// AfterConfig broadcasts the loaded configuration, then injects declared
// dependencies. Every component sees the configuration before any
// component receives a dependency. It may be called once.
func (r *Registry) AfterConfig(cfg config.Provider) error {
	if r.configured {
		return ErrAlreadyConfigured
	}

	type injection struct {
		dependent  arena.Index
		dependency Handle
	}
	var injections []injection
	for _, index := range r.order {
		c, _ := r.components.Get(index)
		for _, id := range dependenciesOf(c) {
			dep, ok := r.byID[id]
			if !ok {
				return fmt.Errorf("%w: %s (required by %s)", ErrUnregisteredDependency, id, c.ID())
			}
			injections = append(injections, injection{dependent: index, dependency: Handle{id: id, index: dep}})
		}
	}

	r.configured = true

	for _, index := range r.order {
		c, _ := r.components.Get(index)
		configurable, ok := c.(Configurable)
		if !ok {
			r.logger.Debug("Component does not implement Configurable, skipping", "component", c.ID())
			continue
		}
		if err := configurable.AfterConfig(cfg); err != nil {
			return fmt.Errorf("component %s: after config: %w", c.ID(), err)
		}
	}

	for _, inj := range injections {
		dependent, dependency, ok := r.components.Get2(inj.dependent, inj.dependency.index)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnregisteredDependency, inj.dependency.id)
		}
		receiver, ok := dependent.(DependencyReceiver)
		if !ok {
			r.logger.Debug("Component does not implement DependencyReceiver, skipping", "component", dependent.ID(), "dependency", dependency.ID())
			continue
		}
		if err := receiver.RegisterDependency(inj.dependency, dependency); err != nil {
			return fmt.Errorf("component %s: register dependency %s: %w", dependent.ID(), dependency.ID(), err)
		}
		r.logger.Debug("Injected dependency", "component", dependent.ID(), "dependency", dependency.ID())
	}

	return nil
}

// Configured reports whether AfterConfig has run.
func (r *Registry) Configured() bool {
	return r.configured
}

// Shutdown calls BeforeShutdown on every component in reverse registration
// order. A failing component does not stop the others; every failure is
// logged and the first one is returned.
func (r *Registry) Shutdown(kind Shutdown) error {
	var firstErr error
	for _, index := range slices.Backward(r.order) {
		c, ok := r.components.Get(index)
		if !ok {
			continue
		}
		aware, ok := c.(ShutdownAware)
		if !ok {
			r.logger.Debug("Component does not implement ShutdownAware, skipping", "component", c.ID())
			continue
		}
		r.logger.Debug("Shutting down component", "component", c.ID(), "kind", kind)
		if err := aware.BeforeShutdown(kind); err != nil {
			r.logger.Error("Error shutting down component", "component", c.ID(), "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("component %s: shutdown: %w", c.ID(), err)
			}
		}
	}
	return firstErr
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return r.components.Len()
}

// IsEmpty reports whether nothing has been registered.
func (r *Registry) IsEmpty() bool {
	return r.components.IsEmpty()
}

// Get resolves a handle. Handles to a reused slot do not resolve.
func (r *Registry) Get(h Handle) (Component, bool) {
	c, ok := r.components.Get(h.index)
	if !ok || c.ID() != h.id {
		return nil, false
	}
	return c, true
}

// GetByID returns the component registered under id.
func (r *Registry) GetByID(id ID) (Component, bool) {
	index, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.components.Get(index)
}

// HandleByID returns a handle to the component registered under id.
func (r *Registry) HandleByID(id ID) (Handle, bool) {
	index, ok := r.byID[id]
	if !ok || !r.components.Contains(index) {
		return Handle{}, false
	}
	return Handle{id: id, index: index}, true
}

// All iterates over components in registration order.
func (r *Registry) All() iter.Seq2[Handle, Component] {
	return func(yield func(Handle, Component) bool) {
		for _, index := range r.order {
			c, ok := r.components.Get(index)
			if !ok {
				continue
			}
			if !yield(Handle{id: c.ID(), index: index}, c) {
				return
			}
		}
	}
}

// IDs returns component identifiers in registration order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.order))
	for h := range r.All() {
		ids = append(ids, h.ID())
	}
	return ids
}

// Lookup returns the first registered component of type T. When T is a
// concrete type the lookup uses a type index; when T is an interface the
// components are scanned in registration order.
func Lookup[T any](r *Registry) (T, bool) {
	var zero T
	t := reflect.TypeFor[T]()

	if t.Kind() != reflect.Interface {
		index, ok := r.byType[t]
		if !ok {
			return zero, false
		}
		c, ok := r.components.Get(index)
		if !ok {
			return zero, false
		}
		typed, ok := c.(T)
		return typed, ok
	}

	for _, c := range r.All() {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

// Descriptor is a serializable summary of a component.
type Descriptor struct {
	ID           ID      `json:"id"`
	Version      Version `json:"version"`
	Dependencies []ID    `json:"dependencies,omitempty"`
}

// Describe summarizes c.
func Describe(c Component) Descriptor {
	return Descriptor{ID: c.ID(), Version: c.Version(), Dependencies: slices.Clone(dependenciesOf(c))}
}

// Descriptors summarizes every component in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, r.Len())
	for _, c := range r.All() {
		out = append(out, Describe(c))
	}
	return out
}
