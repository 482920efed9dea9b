package component

import (
	"errors"
	"fmt"

	"github.com/GoCodeAlone/bootkit/config"
)

// Static errors for the component package
var (
	// ErrComponent is the kind shared by every registry failure.
	ErrComponent = errors.New("component error")

	ErrAlreadyRegistered      = fmt.Errorf("%w: components already registered", ErrComponent)
	ErrAlreadyConfigured      = fmt.Errorf("%w: components already configured", ErrComponent)
	ErrDuplicateComponent     = fmt.Errorf("%w: duplicate component ID", ErrComponent)
	// ErrUnregisteredDependency is raised while configuring, so it also
	// matches config.ErrConfig.
	ErrUnregisteredDependency = fmt.Errorf("%w: unregistered dependency ID: %w", ErrComponent, config.ErrConfig)
	ErrComponentOrder         = fmt.Errorf("%w: dependency ordering conflict", ErrComponent)
	ErrSelfDependency         = fmt.Errorf("%w: component depends on itself", ErrComponent)
	ErrNilComponent           = fmt.Errorf("%w: nil component", ErrComponent)
	ErrWrongDependencyType    = fmt.Errorf("%w: dependency has unexpected type", ErrComponent)
	ErrUnexpectedDependency   = fmt.Errorf("%w: unexpected dependency", ErrComponent)
	ErrInvalidVersion         = fmt.Errorf("%w: invalid version", ErrComponent)
)
