package cmdtest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/bootkit"
)

var errNoExitCode = errors.New("no exit status returned from subprocess")

// Process is a running subprocess started by a Runner.
type Process struct {
	cmd     *exec.Cmd
	timeout time.Duration
	stdin   io.WriteCloser
	stdout  *Stream
	stderr  *Stream
}

// Stdout returns the captured standard output. It panics if the Runner did
// not capture it.
func (p *Process) Stdout() *Stream {
	if p.stdout == nil {
		panic("child stdout not captured (use CaptureStdout)")
	}
	return p.stdout
}

// Stderr returns the captured standard error. It panics if the Runner did
// not capture it.
func (p *Process) Stderr() *Stream {
	if p.stderr == nil {
		panic("child stderr not captured (use CaptureStderr)")
	}
	return p.stderr
}

// Write sends b to the process's standard input.
func (p *Process) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Signal delivers sig to the process.
func (p *Process) Signal(sig os.Signal) error {
	if err := p.cmd.Process.Signal(sig); err != nil {
		return fmt.Errorf("%w: signal %v: %w", bootkit.ErrProcess, sig, err)
	}
	return nil
}

// Wait closes standard input and waits for the process to exit. A process
// still running after the timeout is killed and ErrTimeout returned; one
// killed by a signal has no exit status and yields ErrProcess.
func (p *Process) Wait() (ExitStatus, error) {
	_ = p.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-time.After(p.timeout):
		_ = p.cmd.Process.Kill()
		<-done
		return ExitStatus{}, fmt.Errorf("%w: operation timed out after %s", bootkit.ErrTimeout, p.timeout)
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return ExitStatus{}, fmt.Errorf("%w: %w", bootkit.ErrProcess, err)
	}
	code := p.cmd.ProcessState.ExitCode()
	if code < 0 {
		return ExitStatus{}, fmt.Errorf("%w: %w: %s", bootkit.ErrProcess, errNoExitCode, p.cmd.ProcessState)
	}
	return ExitStatus{code: code}, nil
}

// Stream reads a captured output stream line by line.
type Stream struct {
	name string
	r    *bufio.Reader
}

func newStream(name string, r io.Reader) *Stream {
	return &Stream{name: name, r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its line terminator.
func (s *Stream) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("reading line from %s: %w", s.name, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ExpectLine reads a line and fails tb unless it equals expected.
func (s *Stream) ExpectLine(tb testing.TB, expected string) {
	tb.Helper()
	line, err := s.ReadLine()
	require.NoError(tb, err)
	assert.Equal(tb, expected, line)
}

// ExpectRegex reads a line and fails tb unless it matches pattern.
func (s *Stream) ExpectRegex(tb testing.TB, pattern string) {
	tb.Helper()
	re, err := regexp.Compile(pattern)
	require.NoError(tb, err, "compiling regex %q", pattern)
	line, err := s.ReadLine()
	require.NoError(tb, err)
	assert.Regexp(tb, re, line)
}

// ExpectEventually reads lines until one matches pattern and fails tb if
// the stream ends first. It returns the matching line.
func (s *Stream) ExpectEventually(tb testing.TB, pattern string) string {
	tb.Helper()
	re, err := regexp.Compile(pattern)
	require.NoError(tb, err, "compiling regex %q", pattern)
	for {
		line, err := s.ReadLine()
		require.NoError(tb, err, "no line of %s matched %q", s.name, pattern)
		if re.MatchString(line) {
			return line
		}
	}
}

// ExitStatus is the exit code of a finished process.
type ExitStatus struct {
	code int
}

// Code returns the exit code.
func (e ExitStatus) Code() int {
	return e.code
}

// Success reports whether the process exited with status 0.
func (e ExitStatus) Success() bool {
	return e.code == 0
}

// ExpectSuccess fails tb unless the process exited with status 0.
func (e ExitStatus) ExpectSuccess(tb testing.TB) {
	tb.Helper()
	assert.Equal(tb, 0, e.code, "process exited with error status: %d", e.code)
}

// ExpectCode fails tb unless the process exited with code.
func (e ExitStatus) ExpectCode(tb testing.TB, code int) {
	tb.Helper()
	assert.Equal(tb, code, e.code, "process exited with status code: %d (expected %d)", e.code, code)
}
