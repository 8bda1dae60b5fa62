// Package cli provides the command-line interface for refrigerant-blend.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/internal/config"
	"github.com/iwvelando/refrigerant-blend/internal/optimizer"
	"github.com/iwvelando/refrigerant-blend/pkg/constants"
	"github.com/iwvelando/refrigerant-blend/pkg/output"
	"github.com/iwvelando/refrigerant-blend/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile          string
	logLevelOverride string
	outputFormatFlag string

	conf         *config.Configuration
	logger       *zap.Logger
	tables       blend.Tables
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "refrigerant-blend",
	Short: "Minimum-cost refrigerant charge optimization",
	Long: `refrigerant-blend computes the minimum-cost set of material additions,
removals, and fresh extractions needed to bring a refrigerant charge to a
target total mass, holding the mandatory 4:3:2:1 blend ratio among the
elements present in the final mixture and capping top-ups at 15% per element.

Examples:
  refrigerant-blend refuel --mix charge.yaml
  refrigerant-blend refuel --mix charge.yaml --target 110
  refrigerant-blend new-blend --weight 80
  refrigerant-blend optimise --mix charge.yaml --target 120`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI. Any error has already been reported on stderr by
// cobra; the caller only needs the exit code.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: json, pretty")

	rootCmd.AddCommand(refuelCmd)
	rootCmd.AddCommand(newBlendCmd)
	rootCmd.AddCommand(optimiseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration, initializes logging, and resolves the domain
// tables before any subcommand runs. The default config file is optional;
// an explicitly requested one is not.
func setup(cmd *cobra.Command, args []string) error {
	conf = &config.Configuration{}
	if _, err := os.Stat(cfgFile); err == nil {
		loaded, err := config.LoadConfiguration(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration at %s: %w", cfgFile, err)
		}
		conf = loaded
	} else if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
		return fmt.Errorf("failed to load configuration at %s: %w", cfgFile, err)
	}

	var err error
	logger, err = initializeLogger(conf.Logging, logLevelOverride)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tables, err = conf.Tables()
	if err != nil {
		return fmt.Errorf("invalid blend configuration: %w", err)
	}

	// CLI override takes precedence over config.
	outputFormat = conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatJSON
	}
	return validation.ValidateOutputFormat(outputFormat)
}

// render writes the result to the command's output in the selected format.
func render(cmd *cobra.Command, result *optimizer.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(cmd.OutOrStdout(), result)
		return nil
	default:
		return output.JSONFormat(cmd.OutOrStdout(), result)
	}
}
