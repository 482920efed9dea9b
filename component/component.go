// Package component defines the unit of extension of a bootkit application
// and the Registry that owns components, orders them by their declared
// dependencies and drives their lifecycle callbacks.
//
// A component only has to implement Component. The lifecycle hooks are
// optional interfaces:
//
//	type Cache struct{ component.Injector; db *db.Pool }
//
//	func (c *Cache) ID() component.ID           { return component.IDOf(c) }
//	func (c *Cache) Version() component.Version { return "1.0.0" }
//	func (c *Cache) AfterConfig(cfg config.Provider) error { ... }
//	func (c *Cache) BeforeShutdown(kind component.Shutdown) error { ... }
//
// Registration is a single bulk operation. Components are stored in
// dependency order: a component always comes after the components it
// depends on, and is shut down before them.
package component

import (
	"fmt"

	"github.com/GoCodeAlone/bootkit/config"
)

// Component is the capability every registered component provides.
type Component interface {
	// ID returns the identifier the component is registered under. It must
	// not change during the component's lifetime.
	ID() ID

	// Version is informational and shown in diagnostics.
	Version() Version
}

// DependencyAware components declare other components they need. Each
// listed ID must be registered in the same batch.
type DependencyAware interface {
	Dependencies() []ID
}

// Configurable components are told when configuration has been loaded.
// AfterConfig is called exactly once, before any dependency injection.
type Configurable interface {
	AfterConfig(cfg config.Provider) error
}

// DependencyReceiver components are handed each of their declared
// dependencies once every component has observed the configuration.
type DependencyReceiver interface {
	RegisterDependency(handle Handle, dependency Component) error
}

// ShutdownAware components are given a chance to release resources before
// the application exits.
type ShutdownAware interface {
	BeforeShutdown(kind Shutdown) error
}

// Shutdown tells components why the application is exiting.
type Shutdown int

const (
	// ShutdownGraceful follows normal completion or a first interrupt.
	ShutdownGraceful Shutdown = iota
	// ShutdownForced follows a repeated interrupt; components should not
	// wait on in-flight work.
	ShutdownForced
	// ShutdownCrash follows a fatal error.
	ShutdownCrash
)

// String implements fmt.Stringer
func (s Shutdown) String() string {
	switch s {
	case ShutdownGraceful:
		return "graceful"
	case ShutdownForced:
		return "forced"
	case ShutdownCrash:
		return "crash"
	default:
		return fmt.Sprintf("shutdown(%d)", int(s))
	}
}

// dependenciesOf returns the declared dependencies of c, if any.
func dependenciesOf(c Component) []ID {
	if d, ok := c.(DependencyAware); ok {
		return d.Dependencies()
	}
	return nil
}
