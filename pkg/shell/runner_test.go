package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerQuiet(t *testing.T) {
	requireSh(t)
	r := NewExecRunner(nil)
	ctx := context.Background()

	require.True(t, r.Quiet(ctx, Cmd("sh", "-c", "exit 0")))
	require.False(t, r.Quiet(ctx, Cmd("sh", "-c", "exit 1")))
	require.False(t, r.Quiet(ctx, Cmd("ubrew-definitely-not-installed", "-version")))
}

func TestExecRunnerRunExitError(t *testing.T) {
	requireSh(t)
	var out bytes.Buffer
	r := NewExecRunner(nil)
	r.Stdout = &out
	r.Stderr = &out

	err := r.Run(context.Background(), Cmd("sh", "-c", "echo building; exit 3"))
	require.Error(t, err)

	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	require.Equal(t, 3, ee.Code)
	require.Contains(t, out.String(), "building")
}

func TestExecRunnerMissingExecutable(t *testing.T) {
	r := NewExecRunner(nil)
	err := r.Run(context.Background(), Cmd("ubrew-definitely-not-installed"))
	require.Error(t, err)

	var ee *ExitError
	require.False(t, errors.As(err, &ee))
}

func TestExecRunnerOutput(t *testing.T) {
	requireSh(t)
	r := NewExecRunner(nil)
	c := Cmd("sh", "-c", "echo \"$GREETING\"")
	c.Env = []string{"GREETING=  hello  "}

	out, err := r.Output(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, "hello", out)
}

func TestExecRunnerDir(t *testing.T) {
	requireSh(t)
	dir := t.TempDir()
	r := NewExecRunner(nil)
	c := Cmd("sh", "-c", "pwd -P")
	c.Dir = dir

	out, err := r.Output(context.Background(), c)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestDryRunRunner(t *testing.T) {
	var out bytes.Buffer
	queries := NewExecRunner(nil)
	r := &DryRunRunner{Queries: queries, Out: &out}

	err := r.Run(context.Background(), Cmd("ubrew-definitely-not-installed", "install"))
	require.NoError(t, err)
	require.Contains(t, out.String(), "==> ubrew-definitely-not-installed install")
}

func TestCommandString(t *testing.T) {
	c := Cmd("python", "-c", "import matplotlib as m; m.test()")
	require.Equal(t, []string{"python", "-c", "import matplotlib as m; m.test()"}, c.Argv())
	require.Contains(t, c.String(), "'import matplotlib as m; m.test()'")
}
