package admin

import (
	"errors"
	"fmt"
)

var (
	ErrAdmin          = errors.New("admin error")
	ErrInvalidConfig  = fmt.Errorf("%w: invalid configuration", ErrAdmin)
	ErrAlreadyServing = fmt.Errorf("%w: server already running", ErrAdmin)
)
