// internal/cli/deps.go
package cli

import (
	"fmt"
	"strings"

	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/spf13/cobra"
)

var (
	depsWith    []string
	depsWithout []string
	depsPURL    bool
	depsBackend string
)

var depsCmd = &cobra.Command{
	Use:   "deps [formula|descriptor file]",
	Short: "Show the dependencies of a build",
	Long: `Resolve a formula's dependencies for the given build options.

Examples:
  ubrew deps matplotlib
  ubrew deps matplotlib --with python3
  ubrew deps matplotlib --with pygtk --purl
  ubrew deps matplotlib --backend apt
  ubrew deps ./matplotlib.hcl --with tex`,
	Args: cobra.ExactArgs(1),
	RunE: runDeps,
}

func init() {
	buildFlags(depsCmd, &depsWith, &depsWithout)
	depsCmd.Flags().BoolVar(&depsPURL, "purl", false, "print package URLs")
	depsCmd.Flags().StringVar(&depsBackend, "backend", "", "print names for a host package manager (apt, dnf, pacman, apk, zypper, nix, brew)")
}

func runDeps(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	deps, err := mgr.Dependencies(args[0], depsWith, depsWithout)
	if err != nil {
		return err
	}

	backend := depsBackend
	if cmd.Flags().Changed("backend") && backend == "" {
		backend = mgr.Host().Preferred
	}

	for _, dep := range deps {
		var tags []string
		if dep.Build {
			tags = append(tags, "build")
		}
		if dep.Requirement {
			tags = append(tags, "requirement")
		}
		if dep.Activation != descriptor.Required {
			tags = append(tags, dep.Activation.String())
		}
		if len(dep.Options) > 0 {
			tags = append(tags, strings.Join(dep.Options, ","))
		}

		name := dep.Name
		switch {
		case depsPURL:
			name = descriptor.PackageURL(dep)
		case backend != "" && !dep.Requirement:
			resolved, err := mgr.BackendName(dep.Name, backend)
			if err != nil {
				name = dep.Name + " (no " + backend + " package)"
			} else {
				name = resolved
			}
		}

		if len(tags) > 0 {
			fmt.Printf("%s [%s]\n", name, strings.Join(tags, ", "))
		} else {
			fmt.Println(name)
		}
	}
	return nil
}
