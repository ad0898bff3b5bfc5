// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arc-language/ubrew"
	"github.com/arc-language/ubrew/pkg/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	prefix  string
	debug   bool
	config  *core.Config
	logger  *zap.SugaredLogger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ubrew",
	Short: "Build Python packages from source formulae",
	Long: `ubrew - source formula builder

Resolves a formula's options and dependencies, checks its requirements,
then fetches, patches and builds it into a keg under the install prefix.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ubrew/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "", "install root (overrides config and UBREW_PREFIX)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(caveatsCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if prefix != "" {
		config.Prefix = prefix
	}
	if debug {
		config.Debug = true
	}

	logger = newLogger(config.Debug)
}

func newLogger(debug bool) *zap.SugaredLogger {
	if !debug {
		return zap.NewNop().Sugar()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// newManager builds a Manager from the loaded config
func newManager(cmd *cobra.Command) (*ubrew.Manager, error) {
	mgr, err := ubrew.NewManager(cmd.Context(), config, &ubrew.Options{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("initializing: %w", err)
	}
	return mgr, nil
}

// buildFlags registers --with and --without on a command
func buildFlags(cmd *cobra.Command, with, without *[]string) {
	cmd.Flags().StringSliceVar(with, "with", nil, "enable a build option (repeatable)")
	cmd.Flags().StringSliceVar(without, "without", nil, "disable a build option (repeatable)")
}
