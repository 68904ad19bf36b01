//go:build linux || darwin

package sandbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"testing"

	"github.com/sempr/psutil-go/pkg/constants"
	"github.com/sempr/psutil-go/pkg/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func testLimiter(t *testing.T) Limiter {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	return New(exe)
}

func TestLimiterAppliesLimits(t *testing.T) {
	var out bytes.Buffer
	cmd := exec.Command("/bin/sh", "-c", "ulimit -t; ulimit -v")
	cmd.Stdout = &out

	require.NoError(t, testLimiter(t).Start(cmd, Limitation{TimeSec: 2.5, MemoryMB: 64}))
	require.NoError(t, cmd.Wait())
	require.Equal(t, []string{"3", "65536"}, strings.Fields(out.String()))
}

func TestLimiterWithoutMemory(t *testing.T) {
	var out bytes.Buffer
	cmd := exec.Command("/bin/sh", "-c", "ulimit -t")
	cmd.Stdout = &out

	require.NoError(t, testLimiter(t).Start(cmd, Limitation{}))
	require.NoError(t, cmd.Wait())
	require.Equal(t, "1", strings.TrimSpace(out.String()))
}

func TestLimiterExecFailure(t *testing.T) {
	cmd := exec.Command("/nonexistent/solution")

	err := testLimiter(t).Start(cmd, Limitation{TimeSec: 1})
	var se *StartError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "exec", se.Stage)
	require.NotNil(t, cmd.ProcessState)
	require.Equal(t, constants.ExitNotFound, cmd.ProcessState.ExitCode())
}

func TestLimiterLookupFailure(t *testing.T) {
	cmd := exec.Command("definitely-not-a-real-program-name")

	err := testLimiter(t).Start(cmd, Limitation{TimeSec: 1})
	var se *StartError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "lookup", se.Stage)
	require.Nil(t, cmd.Process)
}

func TestLimiterCPUKill(t *testing.T) {
	cmd := exec.Command("/bin/sh", "-c", "while :; do :; done")

	require.NoError(t, testLimiter(t).Start(cmd, Limitation{TimeSec: 0.5}))
	err := cmd.Wait()
	var ee *exec.ExitError
	require.True(t, errors.As(err, &ee))
	ws := ee.Sys().(syscall.WaitStatus)
	require.True(t, ws.Signaled())
	require.Equal(t, unix.SIGXCPU, ws.Signal())
}

func TestHelperUsage(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	cmd := exec.Command(exe, HelperCommand, "--time", "1")
	cmd.ExtraFiles = []*os.File{w}
	err = cmd.Run()
	w.Close()
	var ee *exec.ExitError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, constants.ExitUsage, ee.ExitCode())

	var failure models.HelperFailure
	require.NoError(t, json.NewDecoder(r).Decode(&failure))
	require.Equal(t, "usage", failure.Stage)
	require.Equal(t, "no target program", failure.Error)
}
