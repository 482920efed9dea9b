package component

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// FrameworkVersion is the version reported by the built-in components.
const FrameworkVersion Version = "0.4.0"

// Version is a semantic version attached to a component for diagnostics.
// It is stored without the leading "v".
type Version string

// ParseVersion validates s as a semantic version. A leading "v" is optional.
func ParseVersion(s string) (Version, error) {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(s), "v")
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	return Version(strings.TrimPrefix(v, "v")), nil
}

// MustParseVersion is like ParseVersion but panics on invalid input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String implements fmt.Stringer
func (v Version) String() string {
	return string(v)
}

// IsValid reports whether v is a well-formed semantic version.
func (v Version) IsValid() bool {
	return semver.IsValid(v.semver())
}

// Major returns the major component, such as "1".
func (v Version) Major() string {
	return strings.TrimPrefix(semver.Major(v.semver()), "v")
}

// Compare returns -1, 0 or +1 following semantic version precedence.
// Invalid versions sort before valid ones.
func (v Version) Compare(other Version) int {
	return semver.Compare(v.semver(), other.semver())
}

func (v Version) semver() string {
	return "v" + string(v)
}
