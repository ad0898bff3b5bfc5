// internal/cli/caveats.go
package cli

import (
	"fmt"

	"github.com/arc-language/ubrew"
	"github.com/spf13/cobra"
)

var (
	caveatsWith    []string
	caveatsWithout []string
)

var caveatsCmd = &cobra.Command{
	Use:   "caveats [formula]",
	Short: "Show a formula's post-install notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaveats,
}

func init() {
	buildFlags(caveatsCmd, &caveatsWith, &caveatsWithout)
}

func runCaveats(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	s, err := mgr.Caveats(args[0], ubrew.Request{With: caveatsWith, Without: caveatsWithout})
	if err != nil {
		return err
	}
	fmt.Print(s)
	return nil
}
