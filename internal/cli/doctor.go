// internal/cli/doctor.go
package cli

import (
	"fmt"

	"github.com/arc-language/ubrew"
	"github.com/spf13/cobra"
)

var (
	doctorWith    []string
	doctorWithout []string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [formula|descriptor file]",
	Short: "Check a formula's requirements on this host",
	Long:  `Run the requirement checks of a build. Unsatisfied requirements are advisory and never block an install.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDoctor,
}

func init() {
	buildFlags(doctorCmd, &doctorWith, &doctorWithout)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Host: %s\n\n", mgr.Host())

	reports, err := mgr.Doctor(cmd.Context(), args[0], ubrew.Request{With: doctorWith, Without: doctorWithout})
	if err != nil {
		return err
	}

	for _, r := range reports {
		fmt.Println(r)
	}
	return nil
}
