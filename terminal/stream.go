package terminal

import (
	"fmt"
	"io"
	"sync"
)

// statusWidth is the column justified status words are right-aligned to.
const statusWidth = 12

// Stream is a writer that knows whether it may emit color. Writes are
// serialized so status lines from different goroutines do not interleave.
type Stream struct {
	mu      sync.Mutex
	w       io.Writer
	colored bool
}

// NewStream wraps w, resolving choice against it.
func NewStream(w io.Writer, choice ColorChoice) *Stream {
	return &Stream{w: w, colored: colorEnabled(w, choice)}
}

// Colored reports whether the stream emits ANSI colors.
func (s *Stream) Colored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colored
}

func (s *Stream) setChoice(choice ColorChoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colored = colorEnabled(s.w, choice)
}

// Write implements io.Writer
func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Status prints "<status> <message>" with the status word bold and colored.
// A justified status is right-aligned the way cargo prints its progress.
func (s *Stream) Status(color Color, status, message string, justified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if justified {
		status = fmt.Sprintf("%*s", statusWidth, status)
	}
	if s.colored {
		status = bold + string(color) + status + reset
	}
	_, err := fmt.Fprintf(s.w, "%s %s\n", status, message)
	return err
}

// Attr prints a tab-delimited attribute line such as "addr:\t127.0.0.1".
func (s *Stream) Attr(color Color, attr, message string) error {
	delimited := attr + ":"
	if len(attr) < 7 {
		delimited += "\t"
	}
	return s.Status(color, delimited, message, false)
}
