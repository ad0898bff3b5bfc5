// internal/cli/update.go
package cli

import (
	"fmt"

	"github.com/arc-language/ubrew/pkg/index"
	"github.com/spf13/cobra"
)

var (
	updateRepo     string
	updateIndexDir string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the dependency name index",
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateRepo, "repo", "", "git repository holding the dependency index")
	updateCmd.Flags().StringVar(&updateIndexDir, "index-dir", "", "index directory inside the repository (default "+index.IndexDir+")")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}
	if err := mgr.Update(cmd.Context(), updateRepo, updateIndexDir); err != nil {
		return err
	}
	fmt.Println("✓ Dependency index updated")
	return nil
}
