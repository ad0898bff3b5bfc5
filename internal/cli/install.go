// internal/cli/install.go
package cli

import (
	"fmt"

	"github.com/arc-language/ubrew"
	"github.com/spf13/cobra"
)

var (
	installWith    []string
	installWithout []string
	installHead    bool
	installDryRun  bool
)

var installCmd = &cobra.Command{
	Use:   "install [formula]",
	Short: "Build and install a formula",
	Long: `Build a formula from source into <prefix>/Cellar/<name>/<version>.

Examples:
  ubrew install matplotlib
  ubrew install matplotlib --with python3 --without python
  ubrew install matplotlib --head
  ubrew install matplotlib --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	buildFlags(installCmd, &installWith, &installWithout)
	installCmd.Flags().BoolVar(&installHead, "head", false, "build the development head")
	installCmd.Flags().BoolVarP(&installDryRun, "dry-run", "n", false, "print build commands instead of running them")
}

func runInstall(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	name := args[0]
	fmt.Printf("Installing %s...\n", name)

	report, err := mgr.Install(cmd.Context(), name, ubrew.Request{
		With:    installWith,
		Without: installWithout,
		Head:    installHead,
		DryRun:  installDryRun,
	})
	if err != nil {
		return err
	}

	for _, w := range report.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, a := range report.Advisories {
		fmt.Println(a)
	}

	if installDryRun {
		fmt.Printf("✓ Dry run of %s complete\n", name)
	} else {
		fmt.Printf("✓ Successfully installed %s into %s\n", name, report.Prefix)
	}

	if report.Caveats != "" {
		fmt.Printf("\n==> Caveats\n%s", report.Caveats)
	}
	return nil
}
