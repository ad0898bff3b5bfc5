package matplotlib

import (
	"context"
	"fmt"

	"github.com/arc-language/ubrew/pkg/core"
	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/probe"
)

const texMessage = `LaTeX not found. This is optional for Matplotlib.
If you want, https://www.tug.org/mactex/ provides an installer.
`

const pycxxMessage = `*** Warning, PyCXX detected! ***
On your system, there is already a PyCXX version installed, that will
probably make the build of Matplotlib fail. In python you can test if that
package is available with ` + "`import CXX`" + `. To get a hint where that package
is installed, you can:
    %s -c "import os; import CXX; print(os.path.dirname(CXX.__file__))"
See also: https://github.com/Homebrew/homebrew-python/issues/56
`

// TexProbe checks for the LaTeX toolchain used by the usetex renderer
func TexProbe() *probe.ToolchainProbe {
	return &probe.ToolchainProbe{
		ProbeName: "tex",
		Commands: []probe.Command{
			{Name: "latex", Args: []string{"-version"}},
			{Name: "dvipng", Args: []string{"-version"}},
		},
		Message: texMessage,
	}
}

// PyCXXProbe checks that interpreter cannot import a standalone PyCXX,
// which shadows the copy bundled with matplotlib
func PyCXXProbe(interpreter string) *probe.ConflictProbe {
	return &probe.ConflictProbe{
		ProbeName:   "no-external-pycxx",
		Interpreter: interpreter,
		Module:      "CXX",
		Message:     fmt.Sprintf(pycxxMessage, interpreter),
	}
}

// libraryProbe checks that pkg-config can see a library, falling back to
// looking for its library files in the build's search paths
func libraryProbe(b *core.Build, name, module string) probe.Func {
	message := fmt.Sprintf("%s not found by pkg-config (module %s) or in the library search path. Install it or add its prefix to the dependencies section of the config.\n", name, module)
	return probe.Func{
		ProbeName: name,
		Fn: func(ctx context.Context, env probe.Environment) probe.Result {
			if env.CommandSucceeds(ctx, "pkg-config", "--exists", module) {
				return probe.Result{OK: true}
			}
			if b.HasLibrary(name) {
				b.Logger.Debugf("%s: pkg-config failed, library found in search path", name)
				return probe.Result{OK: true}
			}
			return probe.Result{OK: false, Advisory: message}
		},
	}
}

// interpreterProbe checks that a runtime's interpreter runs
func interpreterProbe(name, exe string) *probe.ToolchainProbe {
	return &probe.ToolchainProbe{
		ProbeName: name,
		Commands:  []probe.Command{{Name: exe, Args: []string{"--version"}}},
		Message:   fmt.Sprintf("%s not found. It is needed to build for %s.\n", exe, name),
	}
}

// Probes returns a probe for every resolved requirement
func (f *Formula) Probes(b *core.Build) []probe.Probe {
	interpreters := make(map[string]string)
	for _, rt := range b.Runtimes {
		interpreters[rt.Name] = rt.Executable
	}

	var probes []probe.Probe
	for _, req := range descriptor.Requirements(b.Dependencies) {
		switch req.Name {
		case "python", "python3":
			if exe, ok := interpreters[req.Name]; ok {
				probes = append(probes, interpreterProbe(req.Name, exe))
			}
		case "freetype":
			probes = append(probes, libraryProbe(b, "freetype", "freetype2"))
		case "libpng":
			probes = append(probes, libraryProbe(b, "libpng", "libpng"))
		case "tex":
			probes = append(probes, TexProbe())
		case "no-external-pycxx":
			if len(b.Runtimes) == 0 {
				probes = append(probes, PyCXXProbe("python"))
			}
			for _, rt := range b.Runtimes {
				probes = append(probes, PyCXXProbe(rt.Executable))
			}
		default:
			b.Logger.Debugf("No probe for requirement %s", req.Name)
		}
	}
	return probes
}
