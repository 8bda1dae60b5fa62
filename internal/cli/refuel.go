package cli

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/refrigerant-blend/internal/config"
	"github.com/iwvelando/refrigerant-blend/internal/optimizer"
	"github.com/spf13/cobra"
)

var (
	refuelMixFile  string
	refuelTarget   float64
	refuelShowCaps bool
)

// refuelCmd represents the refuel command
var refuelCmd = &cobra.Command{
	Use:   "refuel",
	Short: "Top up an existing charge within the per-element refuel cap",
	Long: `Optimize a bounded top-up of an existing charge. Without --target the charge
is topped up as far as the 15% per-element cap and the blend ratio allow;
with --target the exact final weight is enforced.`,
	RunE: runRefuel,
}

func init() {
	refuelCmd.Flags().StringVarP(&refuelMixFile, "mix", "m", "", "YAML file mapping each element to its current mass (kg)")
	refuelCmd.Flags().Float64VarP(&refuelTarget, "target", "t", 0, "target total weight after refuel (kg)")
	refuelCmd.Flags().BoolVar(&refuelShowCaps, "show-caps", false, "print the per-element addition caps and exit")
	_ = refuelCmd.MarkFlagRequired("mix")
}

func runRefuel(cmd *cobra.Command, args []string) error {
	comp, err := config.LoadComposition(refuelMixFile)
	if err != nil {
		return err
	}

	opt, err := optimizer.New(logger, tables)
	if err != nil {
		return err
	}

	if refuelShowCaps {
		data, err := json.MarshalIndent(opt.MaxAdditions(comp), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode caps: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	req := optimizer.Request{Operation: optimizer.OperationRefuel, Initial: comp}
	if cmd.Flags().Changed("target") {
		target := refuelTarget
		req.Target = &target
	}

	result, err := opt.Run(req)
	if err != nil {
		return err
	}
	return render(cmd, result)
}
