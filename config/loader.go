package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Files without a
// recognised extension are read as TOML.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml", "":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Canonicalize returns the absolute, symlink-free form of path.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &PathError{Path: path, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathError{Path: path, Err: err}
	}
	return resolved, nil
}

// LoadFile canonicalizes path, reads it and decodes it into target, which
// must be a pointer to a struct. Defaults, required fields and Validator are
// applied afterwards. Every failure is a *LoadError naming the path.
func LoadFile(path string, target any) (*Document, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	format, err := FormatFromPath(canonical)
	if err != nil {
		return nil, &LoadError{Path: canonical, Err: err}
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		return nil, &LoadError{Path: canonical, Err: fmt.Errorf("couldn't open: %w", err)}
	}

	doc, err := Load(data, format, target)
	if err != nil {
		return nil, &LoadError{Path: canonical, Err: err}
	}
	doc.path = canonical
	return doc, nil
}

// Load decodes data in the given format into target and returns the raw
// document for section lookups.
func Load(data []byte, format Format, target any) (*Document, error) {
	if err := checkTarget(target); err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(target); err != nil {
			return nil, fmt.Errorf("%w: toml: %w", ErrConfig, err)
		}
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: toml: %w", ErrConfig, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, target); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", ErrConfig, err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", ErrConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err := Process(target); err != nil {
		return nil, err
	}

	return &Document{format: format, raw: raw}, nil
}

// Process applies default tags, checks required tags and runs Validator on a
// configuration struct.
func Process(target any) error {
	if err := ProcessDefaults(target); err != nil {
		return err
	}
	if err := ValidateRequired(target); err != nil {
		return err
	}
	if v, ok := target.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
	}
	return nil
}

// Document is the raw, format-aware form of a loaded configuration file.
type Document struct {
	format Format
	path   string
	raw    map[string]any
}

// Path returns the canonical path the document was read from, if any.
func (d *Document) Path() string {
	return d.path
}

// Format returns the syntax of the document.
func (d *Document) Format() Format {
	return d.format
}

// HasSection reports whether the document has a top-level key name.
func (d *Document) HasSection(name string) bool {
	_, ok := d.raw[name]
	return ok
}

// Section re-encodes a top-level table and decodes it into target, so a
// component can read its own typed section without knowing the
// application's configuration type. Defaults and validation are applied to
// target as for a whole file.
func (d *Document) Section(name string, target any) error {
	value, ok := d.raw[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, name)
	}
	if err := checkTarget(target); err != nil {
		return err
	}

	switch d.format {
	case FormatTOML:
		table, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: section %s is not a table", ErrConfig, name)
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(table); err != nil {
			return fmt.Errorf("%w: failed to marshal section %s: %w", ErrConfig, name, err)
		}
		if _, err := toml.NewDecoder(&buf).Decode(target); err != nil {
			return fmt.Errorf("%w: failed to unmarshal section %s: %w", ErrConfig, name, err)
		}
	case FormatYAML:
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal section %s: %w", ErrConfig, name, err)
		}
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("%w: failed to unmarshal section %s: %w", ErrConfig, name, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, d.format)
	}

	return Process(target)
}
