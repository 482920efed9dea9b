// Package command defines the parsed command an application runs and a
// cobra-based EntryPoint that produces it from process arguments.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GoCodeAlone/bootkit/component"
)

// Static errors for the command package
var (
	// ErrHelp is returned by Parse when help or version output was printed
	// instead of selecting a command.
	ErrHelp = errors.New("help requested")

	// ErrUsage wraps argument parsing failures.
	ErrUsage = errors.New("usage error")
)

// Command is a parsed command line, ready to run.
type Command interface {
	Name() string
	Description() string
	Version() string
	Authors() string

	// ConfigPath returns the configuration file to load, or "" for none.
	ConfigPath() string

	// Verbose reports whether verbose output was requested.
	Verbose() bool

	Run(ctx context.Context) error
}

// ConfigProcessor is implemented by commands that adjust the configuration
// after it is loaded, or reject options incompatible with it.
type ConfigProcessor interface {
	ProcessConfig(cfg any) error
}

// Parser turns process arguments, without the program name, into a Command.
type Parser interface {
	Parse(args []string) (Command, error)
}

// Info describes the program for help and diagnostics.
type Info struct {
	Name        string
	Description string
	Version     string
	// Authors is a colon-separated list.
	Authors string
}

// SemVersion parses Version as a semantic version.
func (i Info) SemVersion() (component.Version, error) {
	return component.ParseVersion(i.Version)
}

// AuthorList splits Authors on ':'.
func (i Info) AuthorList() []string {
	var authors []string
	for _, a := range strings.Split(i.Authors, ":") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// Func adapts a plain function to a Command.
type Func struct {
	Info
	Path string
	Fn   func(ctx context.Context) error
}

func (f Func) Name() string        { return f.Info.Name }
func (f Func) Description() string { return f.Info.Description }
func (f Func) Version() string     { return f.Info.Version }
func (f Func) Authors() string     { return f.Info.Authors }
func (f Func) ConfigPath() string  { return f.Path }
func (f Func) Verbose() bool       { return false }

// Run implements Command
func (f Func) Run(ctx context.Context) error {
	if f.Fn == nil {
		return fmt.Errorf("command %s has nothing to run", f.Info.Name)
	}
	return f.Fn(ctx)
}
