// internal/cli/list.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed kegs and available formulae",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	receipts, err := mgr.List()
	if err != nil {
		return err
	}

	fmt.Printf("Installed in %s:\n", config.Prefix)
	if len(receipts) == 0 {
		fmt.Println("  (none)")
	}
	for _, r := range receipts {
		line := fmt.Sprintf("  %s %s", r.Name, r.Version)
		if len(r.Options) > 0 {
			line += " (" + strings.Join(r.Options, ", ") + ")"
		}
		fmt.Println(line)
	}

	fmt.Printf("\nAvailable formulae: %v\n", mgr.Formulae())
	return nil
}
