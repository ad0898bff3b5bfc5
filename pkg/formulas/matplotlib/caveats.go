package matplotlib

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arc-language/ubrew/pkg/buildenv"
	"github.com/arc-language/ubrew/pkg/core"
	"github.com/arc-language/ubrew/pkg/python"
)

const wxaggCaveat = "If you want to use the `wxagg` backend, do `brew install wxwidgets`.\n" +
	"This can be done even after the matplotlib install.\n"

const pythonPathCaveat = "If you use system python (that comes - depending on the OS X version -\n" +
	"with older versions of numpy, scipy and matplotlib), you actually may\n" +
	"have to set the `PYTHONPATH` in order to make the installed packages come\n" +
	"before these shipped packages in Python's `sys.path`.\n" +
	"    export PYTHONPATH=%s\n"

// Caveats returns the wxagg note, plus PYTHONPATH advice when building
// for a python that this tool did not install
func (f *Formula) Caveats(b *core.Build) string {
	s := wxaggCaveat
	if b.With("python") && !b.IsInstalled("python") {
		s += fmt.Sprintf(pythonPathCaveat, filepath.Join(b.Root, "lib", "python2.7", "site-packages"))
	}
	return s
}

// Test imports matplotlib and runs its test suite with each runtime
func (f *Formula) Test(ctx context.Context, b *core.Build) error {
	return python.Each(b.Runtimes, func(rt python.Runtime) error {
		env := b.Env
		if rt.Version != "" {
			env = buildenv.Prepend(env, "PYTHONPATH", rt.SitePackages(b.Prefix))
		}
		c := rt.Cmd("-c", "import matplotlib as m; m.test()")
		c.Env = env
		return b.Runner.Run(ctx, c)
	})
}
