// pkg/probe/probe.go
package probe

import (
	"context"
	"fmt"
	"strings"
)

// Result is the outcome of a requirement probe. OK=false always carries an
// advisory for the user; a failed probe never aborts an install.
type Result struct {
	OK       bool
	Advisory string
}

// Environment answers questions about the host. Probes only talk to the
// host through it so tests can substitute a fake.
type Environment interface {
	// CommandSucceeds reports whether the command exists and exits zero
	CommandSucceeds(ctx context.Context, name string, args ...string) bool

	// ModuleImportable reports whether interpreter can import module
	ModuleImportable(ctx context.Context, interpreter, module string) bool
}

// Probe is a non-fatal requirement check
type Probe interface {
	Name() string
	Check(ctx context.Context, env Environment) Result
}

// Report pairs a probe name with its result
type Report struct {
	Name string
	Result
}

// CheckAll runs every probe in order
func CheckAll(ctx context.Context, env Environment, probes ...Probe) []Report {
	reports := make([]Report, 0, len(probes))
	for _, p := range probes {
		reports = append(reports, Report{Name: p.Name(), Result: p.Check(ctx, env)})
	}
	return reports
}

// Failed returns the reports whose probe was not satisfied
func Failed(reports []Report) []Report {
	var out []Report
	for _, r := range reports {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}

// Command is an executable plus the arguments used to query it
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// ToolchainProbe is satisfied when every command runs successfully
type ToolchainProbe struct {
	ProbeName string
	Commands  []Command
	Message   string
}

// Name returns the probe name
func (p *ToolchainProbe) Name() string { return p.ProbeName }

// Check runs each version query in turn and stops at the first failure
func (p *ToolchainProbe) Check(ctx context.Context, env Environment) Result {
	for _, c := range p.Commands {
		if !env.CommandSucceeds(ctx, c.Name, c.Args...) {
			return Result{OK: false, Advisory: p.Message}
		}
	}
	return Result{OK: true}
}

// ConflictProbe is satisfied when a module that breaks the build is NOT
// importable by the interpreter
type ConflictProbe struct {
	ProbeName   string
	Interpreter string
	Module      string
	Message     string
}

// Name returns the probe name
func (p *ConflictProbe) Name() string { return p.ProbeName }

// Check fails when the conflicting module is importable
func (p *ConflictProbe) Check(ctx context.Context, env Environment) Result {
	if env.ModuleImportable(ctx, p.Interpreter, p.Module) {
		return Result{OK: false, Advisory: p.Message}
	}
	return Result{OK: true}
}

// Func adapts a function into a Probe
type Func struct {
	ProbeName string
	Fn        func(ctx context.Context, env Environment) Result
}

// Name returns the probe name
func (f Func) Name() string { return f.ProbeName }

// Check calls the function
func (f Func) Check(ctx context.Context, env Environment) Result { return f.Fn(ctx, env) }

// String formats a report for terminal output
func (r Report) String() string {
	if r.OK {
		return fmt.Sprintf("✓ %s", r.Name)
	}
	return fmt.Sprintf("⚠ %s\n%s", r.Name, r.Advisory)
}
