// internal/cli/info.go
package cli

import (
	"fmt"
	"os"

	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/spf13/cobra"
)

var infoYAML bool

var infoCmd = &cobra.Command{
	Use:   "info [formula|descriptor file]",
	Short: "Show information about a formula",
	Long: `Display a formula's metadata, resources and patches.

The argument is a formula name or a path to a YAML, TOML or HCL
descriptor file. With --yaml the normalized descriptor is printed
as YAML, which converts TOML and HCL descriptors.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoYAML, "yaml", false, "print the descriptor as YAML")
}

func runInfo(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd)
	if err != nil {
		return err
	}

	d, err := mgr.Info(args[0])
	if err != nil {
		return err
	}

	if infoYAML {
		data, err := descriptor.Marshal(d)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Printf("Formula: %s\n", d.Name)
	fmt.Printf("Version: %s\n", d.Version)
	if d.Description != "" {
		fmt.Printf("Description: %s\n", d.Description)
	}
	fmt.Printf("Homepage: %s\n", d.Homepage)
	if d.License != "" {
		fmt.Printf("License: %s\n", d.License)
	}
	fmt.Printf("Source: %s\n", d.URL)
	fmt.Printf("Checksum: %s\n", d.Checksum)
	if d.Head != "" {
		fmt.Printf("Head: %s\n", d.Head)
	}

	if len(d.Resources) > 0 {
		fmt.Printf("\nResources:\n")
		for _, r := range d.Resources {
			fmt.Printf("  %s  %s\n", r.Name, r.URL)
		}
	}
	if len(d.Patches) > 0 {
		fmt.Printf("\nPatches:\n")
		for _, p := range d.Patches {
			scope := "stable"
			if p.Head {
				scope = "stable, head"
			}
			fmt.Printf("  %s (%s)\n", p.URL, scope)
		}
	}

	return nil
}
