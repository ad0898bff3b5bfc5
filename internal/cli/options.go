// internal/cli/options.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options [formula|descriptor file]",
	Short: "List a formula's build options",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptions,
}

func runOptions(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	opts, err := mgr.Options(args[0])
	if err != nil {
		return err
	}

	for _, o := range opts {
		fmt.Println(o.Flag())
		if o.Description != "" {
			fmt.Printf("\t%s\n", o.Description)
		}
	}
	return nil
}
