package bootkit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/thread"
)

// Paths are the filesystem locations an application runs from.
type Paths struct {
	// Exe is the canonical path of the running executable.
	Exe string
	// Root is the directory containing Exe.
	Root string
}

// DefaultPaths resolves Paths from the running executable.
func DefaultPaths() (Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return Paths{}, fmt.Errorf("%w: executable: %w", ErrPath, err)
	}
	exe, err = config.Canonicalize(exe)
	if err != nil {
		return Paths{}, err
	}
	return Paths{Exe: exe, Root: filepath.Dir(exe)}, nil
}

// State is everything an application owns besides its configuration.
type State struct {
	Components *component.Registry
	Paths      Paths
	Threads    *thread.Manager
	// RunID identifies this process run in logs and lifecycle events.
	RunID uuid.UUID
}

func newRunID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
