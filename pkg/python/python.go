// Package python describes the Python runtimes a build installs into.
package python

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/shell"
)

// Names are the runtime option names in the order builds visit them
var Names = []string{"python", "python3"}

var versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// Runtime is one Python interpreter targeted by a build
type Runtime struct {
	Name       string // option name: python, python3
	Executable string // interpreter to run
	Version    string // major.minor, filled by Detect
}

// Configured returns the runtimes enabled in opts, python before python3.
// interpreters overrides the executable per runtime name.
func Configured(opts descriptor.BuildOptions, interpreters map[string]string) []Runtime {
	var runtimes []Runtime
	for _, name := range Names {
		if !opts.With(name) {
			continue
		}
		exe := name
		if override, ok := interpreters[name]; ok && override != "" {
			exe = override
		}
		runtimes = append(runtimes, Runtime{Name: name, Executable: exe})
	}
	return runtimes
}

// DetectVersion asks the interpreter for its major.minor version
func DetectVersion(ctx context.Context, runner shell.Runner, exe string) (string, error) {
	out, err := runner.Output(ctx, shell.Cmd(exe, "-c", "import sys; print('%d.%d' % sys.version_info[:2])"))
	if err != nil {
		return "", fmt.Errorf("detecting %s version: %w", exe, err)
	}
	if !versionPattern.MatchString(out) {
		return "", fmt.Errorf("detecting %s version: unexpected output %q", exe, out)
	}
	return out, nil
}

// Detect fills in the version of every runtime
func Detect(ctx context.Context, runner shell.Runner, runtimes []Runtime) ([]Runtime, error) {
	detected := make([]Runtime, len(runtimes))
	for i, rt := range runtimes {
		version, err := DetectVersion(ctx, runner, rt.Executable)
		if err != nil {
			return nil, err
		}
		rt.Version = version
		detected[i] = rt
	}
	return detected, nil
}

// Dir returns the interpreter directory name, e.g. python2.7
func (r Runtime) Dir() string {
	return "python" + r.Version
}

// SitePackages returns the site-packages directory under prefix
func (r Runtime) SitePackages(prefix string) string {
	return filepath.Join(prefix, "lib", r.Dir(), "site-packages")
}

// Cmd builds a command run by this interpreter
func (r Runtime) Cmd(args ...string) shell.Command {
	return shell.Cmd(r.Executable, args...)
}

func (r Runtime) String() string {
	if r.Version == "" {
		return r.Executable
	}
	return fmt.Sprintf("%s (%s)", r.Executable, r.Version)
}

// Each calls fn for every runtime in order and stops at the first error
func Each(runtimes []Runtime, fn func(Runtime) error) error {
	for _, rt := range runtimes {
		if err := fn(rt); err != nil {
			return fmt.Errorf("%s: %w", rt.Name, err)
		}
	}
	return nil
}
