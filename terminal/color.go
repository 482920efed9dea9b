package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorChoice selects whether status output is colored.
type ColorChoice int

const (
	// ColorAuto colors output written to a terminal, unless NO_COLOR is set.
	ColorAuto ColorChoice = iota
	ColorAlways
	ColorNever
)

// ParseColorChoice accepts "auto", "always" or "never".
func ParseColorChoice(s string) (ColorChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("%w: %q", ErrInvalidColorChoice, s)
	}
}

// String implements fmt.Stringer
func (c ColorChoice) String() string {
	switch c {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// UnmarshalText lets a ColorChoice be read from TOML or YAML.
func (c *ColorChoice) UnmarshalText(text []byte) error {
	choice, err := ParseColorChoice(string(text))
	if err != nil {
		return err
	}
	*c = choice
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (c ColorChoice) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Color is an ANSI foreground color.
type Color string

const (
	Green      Color = "\033[32m"
	BrightCyan Color = "\033[96m"
	Yellow     Color = "\033[33m"
	Red        Color = "\033[31m"

	bold  = "\033[1m"
	reset = "\033[0m"
)

// colorEnabled resolves a choice for a concrete writer.
func colorEnabled(w io.Writer, choice ColorChoice) bool {
	switch choice {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
