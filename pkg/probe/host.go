// pkg/probe/host.go
package probe

import (
	"context"

	"github.com/arc-language/ubrew/pkg/shell"
)

// HostEnvironment answers probe questions by running commands
type HostEnvironment struct {
	Runner shell.Runner
	Env    []string // environment for the queries (os.Environ() if nil)
}

// NewHostEnvironment creates a host environment backed by runner
func NewHostEnvironment(runner shell.Runner) *HostEnvironment {
	return &HostEnvironment{Runner: runner}
}

// CommandSucceeds runs the command quietly
func (h *HostEnvironment) CommandSucceeds(ctx context.Context, name string, args ...string) bool {
	c := shell.Cmd(name, args...)
	c.Env = h.Env
	return h.Runner.Quiet(ctx, c)
}

// ModuleImportable runs `interpreter -c "import module"` quietly
func (h *HostEnvironment) ModuleImportable(ctx context.Context, interpreter, module string) bool {
	return h.CommandSucceeds(ctx, interpreter, "-c", "import "+module)
}
