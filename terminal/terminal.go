// Package terminal provides colored, cargo-style status output and the
// Terminal component that owns the application's stdout and stderr streams.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
)

// ComponentID is the identifier the Terminal component registers under.
var ComponentID = component.TypeID[Terminal]()

// Config is the "terminal" section of the application configuration.
type Config struct {
	Color *ColorChoice `toml:"color" yaml:"color"`
}

// Terminal is the framework component for status output.
type Terminal struct {
	stdout *Stream
	stderr *Stream
}

// New creates a Terminal writing to the given streams. Nil writers default to
// os.Stdout and os.Stderr.
func New(choice ColorChoice, stdout, stderr io.Writer) *Terminal {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Terminal{
		stdout: NewStream(stdout, choice),
		stderr: NewStream(stderr, choice),
	}
}

// ID implements component.Component
func (t *Terminal) ID() component.ID {
	return ComponentID
}

// Version implements component.Component
func (t *Terminal) Version() component.Version {
	return component.FrameworkVersion
}

// AfterConfig applies an explicit color setting from the "terminal" section,
// overriding the one given on construction.
func (t *Terminal) AfterConfig(cfg config.Provider) error {
	if cfg == nil {
		return nil
	}
	var section Config
	if err := cfg.Section("terminal", &section); err != nil {
		if errors.Is(err, config.ErrSectionNotFound) {
			return nil
		}
		return fmt.Errorf("terminal: %w", err)
	}
	if section.Color != nil {
		t.stdout.setChoice(*section.Color)
		t.stderr.setChoice(*section.Color)
	}
	return nil
}

// Stdout returns the standard output stream.
func (t *Terminal) Stdout() *Stream {
	return t.stdout
}

// Stderr returns the standard error stream.
func (t *Terminal) Stderr() *Stream {
	return t.stderr
}

// StatusOK prints a justified green status to stdout.
func (t *Terminal) StatusOK(status, format string, args ...any) {
	_ = t.stdout.Status(Green, status, fmt.Sprintf(format, args...), true)
}

// StatusInfo prints a justified cyan status to stdout.
func (t *Terminal) StatusInfo(status, format string, args ...any) {
	_ = t.stdout.Status(BrightCyan, status, fmt.Sprintf(format, args...), true)
}

// StatusWarn prints a yellow warning to stdout.
func (t *Terminal) StatusWarn(format string, args ...any) {
	_ = t.stdout.Status(Yellow, "warning:", fmt.Sprintf(format, args...), false)
}

// StatusErr prints a red error to stderr.
func (t *Terminal) StatusErr(format string, args ...any) {
	_ = t.stderr.Status(Red, "error:", fmt.Sprintf(format, args...), false)
}

// StatusAttrOK prints a green attribute line to stdout.
func (t *Terminal) StatusAttrOK(attr, format string, args ...any) {
	_ = t.stdout.Attr(Green, attr, fmt.Sprintf(format, args...))
}

// StatusAttrErr prints a red attribute line to stderr.
func (t *Terminal) StatusAttrErr(attr, format string, args ...any) {
	_ = t.stderr.Attr(Red, attr, fmt.Sprintf(format, args...))
}

// Fatal prints "<app> fatal error: <err>" to stderr.
func (t *Terminal) Fatal(app string, err error) {
	_ = t.stderr.Status(Red, app+" fatal error:", err.Error(), false)
}
