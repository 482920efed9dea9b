package bootkit

// Status is the lifecycle stage of an application.
type Status int32

const (
	StatusUninitialized Status = iota
	StatusComponentsRegistered
	StatusConfigured
	StatusRunning
	StatusShuttingDown
	StatusTerminated
)

// String implements fmt.Stringer
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusComponentsRegistered:
		return "components_registered"
	case StatusConfigured:
		return "configured"
	case StatusRunning:
		return "running"
	case StatusShuttingDown:
		return "shutting_down"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
