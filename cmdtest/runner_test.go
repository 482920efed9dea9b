package cmdtest

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/bootkit"
)

const helperEnv = "BOOTKIT_CMDTEST_HELPER=1"

// helper runs this test binary as the subprocess, dispatching on its
// arguments in TestHelperProcess.
func helper(args ...string) *Runner {
	return New(os.Args[0], append([]string{"-test.run=TestHelperProcess", "--"}, args...)...).
		Env(helperEnv).
		Output(nil)
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("BOOTKIT_CMDTEST_HELPER") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	args = args[1:]

	switch args[0] {
	case "print":
		for _, line := range args[1:] {
			fmt.Println(line)
		}
		fmt.Fprintln(os.Stderr, "done")
		os.Exit(0)
	case "exit":
		code, _ := strconv.Atoi(args[1])
		os.Exit(code)
	case "echo":
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			fmt.Println("got " + scanner.Text())
		}
		os.Exit(0)
	case "hang":
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	os.Exit(3)
}

func TestRunCapturesOutput(t *testing.T) {
	p, err := helper("print", "first line", "status: ok").CaptureStdout().CaptureStderr().Run()
	require.NoError(t, err)

	p.Stdout().ExpectLine(t, "first line")
	p.Stdout().ExpectRegex(t, `^status: (ok|ready)$`)
	p.Stderr().ExpectLine(t, "done")

	status, err := p.Wait()
	require.NoError(t, err)
	status.ExpectSuccess(t)
	assert.True(t, status.Success())
}

func TestExpectEventually(t *testing.T) {
	p, err := helper("print", "noise", "more noise", "listening on :9090").CaptureStdout().Run()
	require.NoError(t, err)

	line := p.Stdout().ExpectEventually(t, `listening on`)
	assert.Equal(t, "listening on :9090", line)
	_, err = p.Wait()
	require.NoError(t, err)
}

func TestStatusExitCode(t *testing.T) {
	status, err := helper("exit", "2").Status()
	require.NoError(t, err)
	status.ExpectCode(t, 2)
	assert.Equal(t, 2, status.Code())
	assert.False(t, status.Success())
}

func TestWriteToStdin(t *testing.T) {
	p, err := helper("echo").CaptureStdout().Run()
	require.NoError(t, err)

	_, err = p.Write([]byte("ping\n"))
	require.NoError(t, err)
	p.Stdout().ExpectLine(t, "got ping")

	status, err := p.Wait()
	require.NoError(t, err)
	status.ExpectSuccess(t)
}

func TestWaitTimeout(t *testing.T) {
	p, err := helper("hang").Timeout(100 * time.Millisecond).Run()
	require.NoError(t, err)

	_, err = p.Wait()
	assert.ErrorIs(t, err, bootkit.ErrTimeout)
}

func TestRunMissingCommand(t *testing.T) {
	_, err := New("/nonexistent/bootkit-app").Output(nil).Run()
	assert.ErrorIs(t, err, bootkit.ErrProcess)
}

func TestRunEchoesCommand(t *testing.T) {
	var out bytes.Buffer
	r := helper("exit", "0").Output(&out)
	status, err := r.Status()
	require.NoError(t, err)
	status.ExpectSuccess(t)
	assert.Equal(t, "+ run: "+r.String()+"\n", out.String())
}

func TestUncapturedStreamPanics(t *testing.T) {
	p, err := helper("exit", "0").Run()
	require.NoError(t, err)
	assert.Panics(t, func() { p.Stdout() })
	assert.Panics(t, func() { p.Stderr() })
	_, err = p.Wait()
	require.NoError(t, err)
}
