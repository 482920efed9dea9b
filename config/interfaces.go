// Package config loads application configuration from TOML or YAML files and
// hands it to components through a Provider.
package config

import "fmt"

// Provider gives components read access to the loaded configuration.
type Provider interface {
	// GetConfig returns the application's typed configuration value.
	GetConfig() any

	// Section decodes one top-level table of the configuration document into
	// target. It returns ErrSectionNotFound when the document has no such
	// table, including when no file was loaded at all.
	Section(name string, target any) error
}

// Validator is implemented by configuration structs that check themselves
// after defaults are applied.
type Validator interface {
	Validate() error
}

// Feeder fills a configuration struct from some source.
type Feeder interface {
	Feed(target any) error
}

// StdProvider is the standard Provider: a typed value plus the raw document
// it was decoded from, if any.
type StdProvider struct {
	cfg any
	doc *Document
}

// NewStdProvider creates a provider around cfg. doc may be nil when the
// configuration was default-constructed.
func NewStdProvider(cfg any, doc *Document) *StdProvider {
	return &StdProvider{cfg: cfg, doc: doc}
}

// GetConfig returns the configuration object
func (p *StdProvider) GetConfig() any {
	return p.cfg
}

// Document returns the raw document backing the provider, or nil.
func (p *StdProvider) Document() *Document {
	return p.doc
}

// Section implements Provider
func (p *StdProvider) Section(name string, target any) error {
	if p.doc == nil {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, name)
	}
	return p.doc.Section(name, target)
}

// As returns the provider's configuration as T.
func As[T any](p Provider) (T, error) {
	var zero T
	if p == nil {
		return zero, ErrConfigNil
	}
	cfg, ok := p.GetConfig().(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrWrongConfigType, p.GetConfig(), zero)
	}
	return cfg, nil
}
