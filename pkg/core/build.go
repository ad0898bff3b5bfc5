// pkg/core/build.go
package core

import (
	"context"

	"github.com/arc-language/ubrew/pkg/buildenv"
	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/fetch"
	"github.com/arc-language/ubrew/pkg/platform"
	"github.com/arc-language/ubrew/pkg/python"
	"github.com/arc-language/ubrew/pkg/shell"
	"go.uber.org/zap"
)

// Build is everything an install routine may touch. Routines act only
// through it so they can run against a fake host.
type Build struct {
	Descriptor   *descriptor.Descriptor
	Options      descriptor.BuildOptions
	Dependencies []descriptor.Dependency // resolved for Options
	Head         bool

	Root      string // install root (e.g., /usr/local)
	Prefix    string // keg prefix for this build
	SourceDir string // unpacked source tree

	Host     *platform.Host
	Runner   shell.Runner
	Env      []string              // base environment for build commands
	Search   *buildenv.Environment // prefixes Env was derived from
	Stager   *fetch.Stager
	Runtimes []python.Runtime

	// Libraries lists the library names a dependency provides
	Libraries func(name string) []string

	// Installed reports whether another formula is installed
	Installed func(name string) bool

	// Records collects files written by installers (from --record output)
	Records []string

	Logger *zap.SugaredLogger
}

// With reports whether a build option is enabled
func (b *Build) With(name string) bool {
	return b.Options.With(name)
}

// HasLibrary reports whether a library of dependency name is in the
// build's search paths. Without index data the dependency name itself
// is taken as the library name.
func (b *Build) HasLibrary(name string) bool {
	if b.Search == nil {
		return false
	}
	libs := []string{name}
	if b.Libraries != nil {
		if l := b.Libraries(name); len(l) > 0 {
			libs = l
		}
	}
	for _, lib := range libs {
		if b.Search.HasLibrary(lib) {
			return true
		}
	}
	return false
}

// System runs a command in dir with env, failing on a non-zero exit
func (b *Build) System(ctx context.Context, dir string, env []string, name string, args ...string) error {
	c := shell.Cmd(name, args...)
	c.Dir = dir
	c.Env = env
	return b.Runner.Run(ctx, c)
}

// IsInstalled reports whether formula name is installed
func (b *Build) IsInstalled(name string) bool {
	if b.Installed == nil {
		return false
	}
	return b.Installed(name)
}
