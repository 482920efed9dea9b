package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrScheduler       = errors.New("scheduler error")
	ErrInvalidSchedule = fmt.Errorf("%w: invalid schedule", ErrScheduler)
	ErrDuplicateJob    = fmt.Errorf("%w: duplicate job", ErrScheduler)
	ErrUnknownJob      = fmt.Errorf("%w: unknown job", ErrScheduler)
	ErrStarted         = fmt.Errorf("%w: already started", ErrScheduler)
	ErrInvalidConfig   = fmt.Errorf("%w: invalid configuration", ErrScheduler)
)
