package component

import (
	"fmt"

	"github.com/GoCodeAlone/bootkit/internal/arena"
)

// Handle is a weak reference to a registered component. It does not keep the
// component alive; a handle whose slot has been reused no longer resolves.
type Handle struct {
	id    ID
	index arena.Index
}

// ID returns the identifier of the referenced component.
func (h Handle) ID() ID {
	return h.id
}

// IsZero reports whether h was never issued by a registry.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// String implements fmt.Stringer
func (h Handle) String() string {
	return fmt.Sprintf("%s#%s", h.id, h.index)
}
