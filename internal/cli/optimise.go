package cli

import (
	"github.com/iwvelando/refrigerant-blend/internal/config"
	"github.com/iwvelando/refrigerant-blend/internal/optimizer"
	"github.com/spf13/cobra"
)

var (
	optimiseMixFile string
	optimiseTarget  float64
)

// optimiseCmd represents the combined-mixture command. "auto" is kept as an
// alias rather than a duplicated command so the two can never drift apart.
var optimiseCmd = &cobra.Command{
	Use:     "optimise",
	Aliases: []string{"auto"},
	Short:   "Jointly optimize additions, removals, and fresh extractions",
	Long: `Find the cheapest combination of capped additions, removals, and fresh
extractions that brings an existing charge to the target weight while holding
the blend ratio among the elements left in the final mixture.`,
	RunE: runOptimise,
}

func init() {
	optimiseCmd.Flags().StringVarP(&optimiseMixFile, "mix", "m", "", "YAML file mapping each element to its current mass (kg)")
	optimiseCmd.Flags().Float64VarP(&optimiseTarget, "target", "t", 0, "desired total weight after optimization (kg)")
	_ = optimiseCmd.MarkFlagRequired("mix")
	_ = optimiseCmd.MarkFlagRequired("target")
}

func runOptimise(cmd *cobra.Command, args []string) error {
	comp, err := config.LoadComposition(optimiseMixFile)
	if err != nil {
		return err
	}

	opt, err := optimizer.New(logger, tables)
	if err != nil {
		return err
	}

	target := optimiseTarget
	result, err := opt.Run(optimizer.Request{
		Operation: optimizer.OperationCombined,
		Initial:   comp,
		Target:    &target,
	})
	if err != nil {
		return err
	}
	return render(cmd, result)
}
