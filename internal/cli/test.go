// internal/cli/test.go
package cli

import (
	"fmt"

	"github.com/arc-language/ubrew"
	"github.com/spf13/cobra"
)

var (
	testWith    []string
	testWithout []string
)

var testCmd = &cobra.Command{
	Use:   "test [formula]",
	Short: "Run an installed formula's test",
	Args:  cobra.ExactArgs(1),
	RunE:  runTest,
}

func init() {
	buildFlags(testCmd, &testWith, &testWithout)
}

func runTest(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	fmt.Println("This test takes quite a while.")
	if err := mgr.Test(cmd.Context(), args[0], ubrew.Request{With: testWith, Without: testWithout}); err != nil {
		return err
	}
	fmt.Printf("✓ %s passed\n", args[0])
	return nil
}
