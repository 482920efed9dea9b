package config

import (
	"errors"
	"fmt"
)

// Static errors for the config package
var (
	// ErrConfig is the kind shared by every configuration failure.
	ErrConfig = errors.New("config error")

	// ErrPath is the kind for path canonicalization failures.
	ErrPath = errors.New("path error")

	ErrSectionNotFound      = errors.New("config section not found")
	ErrUnsupportedFormat    = fmt.Errorf("%w: unsupported config format", ErrConfig)
	ErrConfigNil            = fmt.Errorf("%w: config is nil", ErrConfig)
	ErrConfigNotPointer     = fmt.Errorf("%w: config must be a pointer", ErrConfig)
	ErrConfigNotStruct      = fmt.Errorf("%w: config must be a struct", ErrConfig)
	ErrRequiredFieldMissing = fmt.Errorf("%w: required field is missing", ErrConfig)
	ErrValidationFailed     = fmt.Errorf("%w: config validation failed", ErrConfig)
	ErrDefaultValue         = fmt.Errorf("%w: invalid default value", ErrConfig)
	ErrEnvInvalidStructure  = fmt.Errorf("%w: env: invalid structure", ErrConfig)
	ErrEnvFieldNotSettable  = fmt.Errorf("%w: env: field cannot be set", ErrConfig)
	ErrWrongConfigType      = fmt.Errorf("%w: config has unexpected type", ErrConfig)
)

// PathError reports a path that could not be canonicalized.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path '%s': %v", e.Path, e.Err)
}

// Unwrap exposes both the error kind and the underlying cause.
func (e *PathError) Unwrap() []error {
	return []error{ErrPath, e.Err}
}

// LoadError reports a configuration file that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading config from '%s': %v", e.Path, e.Err)
}

// Unwrap exposes both the error kind and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrConfig, e.Err}
}
