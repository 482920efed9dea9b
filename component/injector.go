package component

import (
	"fmt"
	"slices"
)

// Injector wires dependencies explicitly. Embed it in a component and call
// Inject from the constructor for every component it needs; the embedding
// component then satisfies DependencyAware and DependencyReceiver.
//
//	func NewCache() *Cache {
//	    c := &Cache{}
//	    component.Inject(&c.Injector, component.TypeID[db.Pool](), func(_ component.Handle, p *db.Pool) error {
//	        c.db = p
//	        return nil
//	    })
//	    return c
//	}
type Injector struct {
	ids       []ID
	callbacks map[ID][]func(Handle, Component) error
}

// Add registers fn to be called with the component registered under id.
func (in *Injector) Add(id ID, fn func(Handle, Component) error) {
	if in.callbacks == nil {
		in.callbacks = make(map[ID][]func(Handle, Component) error)
	}
	if !slices.Contains(in.ids, id) {
		in.ids = append(in.ids, id)
	}
	in.callbacks[id] = append(in.callbacks[id], fn)
}

// Inject registers a typed callback. The dependency is asserted to T before
// fn runs.
func Inject[T Component](in *Injector, id ID, fn func(Handle, T) error) {
	in.Add(id, func(h Handle, dep Component) error {
		typed, ok := dep.(T)
		if !ok {
			var want T
			return fmt.Errorf("%w: %s is %T, want %T", ErrWrongDependencyType, id, dep, want)
		}
		return fn(h, typed)
	})
}

// Dependencies implements DependencyAware
func (in *Injector) Dependencies() []ID {
	return slices.Clone(in.ids)
}

// RegisterDependency implements DependencyReceiver
func (in *Injector) RegisterDependency(h Handle, dep Component) error {
	callbacks, ok := in.callbacks[dep.ID()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnexpectedDependency, dep.ID())
	}
	for _, fn := range callbacks {
		if err := fn(h, dep); err != nil {
			return err
		}
	}
	return nil
}
