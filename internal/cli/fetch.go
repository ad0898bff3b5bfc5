// internal/cli/fetch.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [formula|descriptor file...]",
	Short: "Download and verify sources without building",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	for _, name := range args {
		paths, err := mgr.Fetch(cmd.Context(), name)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
	}
	return nil
}
