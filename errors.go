package bootkit

import (
	"errors"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/signal"
	"github.com/GoCodeAlone/bootkit/thread"
)

// Error kinds. Every error returned by the framework matches one of these
// with errors.Is.
var (
	ErrComponent = component.ErrComponent
	ErrConfig    = config.ErrConfig
	ErrPath      = config.ErrPath
	ErrThread    = thread.ErrThread
	ErrSignal    = signal.ErrSignal

	// ErrProcess and ErrTimeout are returned by the cmdtest subprocess
	// runner.
	ErrProcess = errors.New("process error")
	ErrTimeout = errors.New("timeout error")
)

// Static errors for the application lifecycle
var (
	ErrAlreadyInitialized = errors.New("application already initialized")
	ErrNotConfigured      = errors.New("application not configured")
)
