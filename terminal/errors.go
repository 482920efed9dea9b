package terminal

import "errors"

// ErrInvalidColorChoice is returned for unknown color settings.
var ErrInvalidColorChoice = errors.New("invalid color choice")
