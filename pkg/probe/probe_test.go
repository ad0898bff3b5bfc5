package probe

import (
	"context"
	"strings"
	"testing"

	"github.com/arc-language/ubrew/pkg/shell/shelltest"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	commands map[string]bool
	modules  map[string]bool
	calls    []string
}

func (f *fakeEnv) CommandSucceeds(ctx context.Context, name string, args ...string) bool {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	return f.commands[key]
}

func (f *fakeEnv) ModuleImportable(ctx context.Context, interpreter, module string) bool {
	f.calls = append(f.calls, interpreter+" import "+module)
	return f.modules[interpreter+":"+module]
}

func texProbe() *ToolchainProbe {
	return &ToolchainProbe{
		ProbeName: "tex",
		Commands:  []Command{{Name: "latex", Args: []string{"-version"}}, {Name: "dvipng", Args: []string{"-version"}}},
		Message:   "LaTeX not found.",
	}
}

func TestToolchainProbe(t *testing.T) {
	cases := []struct {
		name   string
		latex  bool
		dvipng bool
		want   bool
	}{
		{"both present", true, true, true},
		{"latex missing", false, true, false},
		{"dvipng missing", true, false, false},
		{"both missing", false, false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := &fakeEnv{commands: map[string]bool{
				"latex -version":  c.latex,
				"dvipng -version": c.dvipng,
			}}
			res := texProbe().Check(context.Background(), env)
			require.Equal(t, c.want, res.OK)
			if c.want {
				require.Empty(t, res.Advisory)
			} else {
				require.Equal(t, "LaTeX not found.", res.Advisory)
			}
		})
	}
}

func TestConflictProbe(t *testing.T) {
	p := &ConflictProbe{ProbeName: "no-external-pycxx", Interpreter: "python", Module: "CXX", Message: "PyCXX detected!"}

	present := &fakeEnv{modules: map[string]bool{"python:CXX": true}}
	res := p.Check(context.Background(), present)
	require.False(t, res.OK)
	require.Equal(t, "PyCXX detected!", res.Advisory)

	absent := &fakeEnv{}
	res = p.Check(context.Background(), absent)
	require.True(t, res.OK)
	require.Empty(t, res.Advisory)
}

func TestCheckAllAndFailed(t *testing.T) {
	env := &fakeEnv{modules: map[string]bool{"python:CXX": true}}
	reports := CheckAll(context.Background(), env,
		texProbe(),
		&ConflictProbe{ProbeName: "no-external-pycxx", Interpreter: "python", Module: "CXX", Message: "conflict"},
		Func{ProbeName: "always", Fn: func(context.Context, Environment) Result { return Result{OK: true} }},
	)

	require.Len(t, reports, 3)
	failed := Failed(reports)
	require.Len(t, failed, 2)
	require.Equal(t, "tex", failed[0].Name)
	require.Equal(t, "no-external-pycxx", failed[1].Name)
	require.Contains(t, failed[1].String(), "conflict")
	require.Equal(t, "✓ always", reports[2].String())
}

func TestHostEnvironment(t *testing.T) {
	rec := shelltest.New()
	rec.Succeed[shelltest.Key("latex", "-version")] = true
	rec.Succeed[shelltest.Key("python3", "-c", "import CXX")] = true

	host := NewHostEnvironment(rec)
	ctx := context.Background()

	require.True(t, host.CommandSucceeds(ctx, "latex", "-version"))
	require.False(t, host.CommandSucceeds(ctx, "dvipng", "-version"))
	require.True(t, host.ModuleImportable(ctx, "python3", "CXX"))
	require.False(t, host.ModuleImportable(ctx, "python", "CXX"))
	require.Empty(t, rec.Commands)
	require.Len(t, rec.Queries, 4)
}
