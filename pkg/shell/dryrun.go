// pkg/shell/dryrun.go
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DryRunRunner prints commands instead of running them.
// Read-only queries (Output, Quiet) are still answered by Queries so that
// probes and version detection reflect the real host.
type DryRunRunner struct {
	Queries Runner
	Out     io.Writer
}

// NewDryRunRunner wraps queries, printing mutating commands to stdout
func NewDryRunRunner(queries Runner) *DryRunRunner {
	return &DryRunRunner{Queries: queries, Out: os.Stdout}
}

// Run prints the command
func (r *DryRunRunner) Run(ctx context.Context, c Command) error {
	if c.Dir != "" {
		fmt.Fprintf(r.Out, "==> (cd %s) %s\n", c.Dir, c)
		return nil
	}
	fmt.Fprintf(r.Out, "==> %s\n", c)
	return nil
}

// Output delegates to the wrapped runner
func (r *DryRunRunner) Output(ctx context.Context, c Command) (string, error) {
	return r.Queries.Output(ctx, c)
}

// Quiet delegates to the wrapped runner
func (r *DryRunRunner) Quiet(ctx context.Context, c Command) bool {
	return r.Queries.Quiet(ctx, c)
}
