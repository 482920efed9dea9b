// Package cmdtest runs an application binary as a subprocess for acceptance
// tests: it captures the streams, matches output line by line and waits for
// the exit status with a timeout.
//
//	bin := cmdtest.Build(t, ".")
//	p, err := cmdtest.New(bin, "components").CaptureStdout().Run()
//	require.NoError(t, err)
//	p.Stdout().ExpectRegex(t, `terminal\.Terminal`)
//	status, err := p.Wait()
//	require.NoError(t, err)
//	status.ExpectSuccess(t)
package cmdtest

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GoCodeAlone/bootkit"
	"github.com/GoCodeAlone/bootkit/terminal"
)

// DefaultTimeout bounds how long Wait waits for the process to exit.
const DefaultTimeout = 30 * time.Minute

// Runner describes a command to run.
type Runner struct {
	cmd           string
	args          []string
	env           []string
	dir           string
	timeout       time.Duration
	captureStdout bool
	captureStderr bool
	out           io.Writer
}

// New creates a Runner for cmd with the given arguments.
func New(cmd string, args ...string) *Runner {
	return &Runner{cmd: cmd, args: args, timeout: DefaultTimeout, out: os.Stdout}
}

// Arg appends one argument.
func (r *Runner) Arg(arg string) *Runner {
	r.args = append(r.args, arg)
	return r
}

// Args appends arguments.
func (r *Runner) Args(args ...string) *Runner {
	r.args = append(r.args, args...)
	return r
}

// Env adds KEY=value pairs to the inherited environment.
func (r *Runner) Env(pairs ...string) *Runner {
	r.env = append(r.env, pairs...)
	return r
}

// Dir sets the working directory.
func (r *Runner) Dir(dir string) *Runner {
	r.dir = dir
	return r
}

// Timeout sets how long Wait waits for the process.
func (r *Runner) Timeout(d time.Duration) *Runner {
	r.timeout = d
	return r
}

// CaptureStdout pipes the process's standard output to Process.Stdout.
func (r *Runner) CaptureStdout() *Runner {
	r.captureStdout = true
	return r
}

// CaptureStderr pipes the process's standard error to Process.Stderr.
func (r *Runner) CaptureStderr() *Runner {
	r.captureStderr = true
	return r
}

// Output sets where the "+ run:" command echo is written. Nil disables it.
func (r *Runner) Output(w io.Writer) *Runner {
	r.out = w
	return r
}

// String returns the command line.
func (r *Runner) String() string {
	return strings.Join(append([]string{r.cmd}, r.args...), " ")
}

// Run starts the process. Streams that are not captured are inherited.
func (r *Runner) Run() (*Process, error) {
	if r.out != nil {
		_ = terminal.NewStream(r.out, terminal.ColorAuto).Status(terminal.Green, "+ run:", r.String(), false)
	}

	cmd := exec.Command(r.cmd, r.args...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	p := &Process{cmd: cmd, timeout: r.timeout}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin: %w", bootkit.ErrProcess, err)
	}
	p.stdin = stdin

	if r.captureStdout {
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("%w: stdout: %w", bootkit.ErrProcess, err)
		}
		p.stdout = newStream("stdout", pipe)
	} else {
		cmd.Stdout = os.Stdout
	}
	if r.captureStderr {
		pipe, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("%w: stderr: %w", bootkit.ErrProcess, err)
		}
		p.stderr = newStream("stderr", pipe)
	} else {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %w", bootkit.ErrProcess, r.cmd, err)
	}
	return p, nil
}

// Status runs the process and waits for it to exit.
func (r *Runner) Status() (ExitStatus, error) {
	p, err := r.Run()
	if err != nil {
		return ExitStatus{}, err
	}
	return p.Wait()
}

// Build compiles the main package pkg into a temporary directory and
// returns the binary's path. The test is skipped in short mode or when the
// go command is not available.
func Build(tb testing.TB, pkg string) string {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping subprocess test in short mode")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		tb.Skip("go command not available")
	}

	bin := filepath.Join(tb.TempDir(), "app")
	out, err := exec.Command(goBin, "build", "-o", bin, pkg).CombinedOutput()
	if err != nil {
		tb.Fatalf("go build %s: %v\n%s", pkg, err, out)
	}
	return bin
}
