package cli

import (
	"github.com/iwvelando/refrigerant-blend/internal/optimizer"
	"github.com/spf13/cobra"
)

var newBlendWeight float64

// newBlendCmd represents the new-blend command
var newBlendCmd = &cobra.Command{
	Use:   "new-blend",
	Short: "Design a fresh blend from scratch",
	Long: `Design a brand-new blend of the requested weight at minimum extraction cost.
The blend ratio only binds among the elements actually selected, so the
optimum extracts the single cheapest element.`,
	RunE: runNewBlend,
}

func init() {
	newBlendCmd.Flags().Float64VarP(&newBlendWeight, "weight", "w", 0, "desired weight of the new blend (kg)")
	_ = newBlendCmd.MarkFlagRequired("weight")
}

func runNewBlend(cmd *cobra.Command, args []string) error {
	opt, err := optimizer.New(logger, tables)
	if err != nil {
		return err
	}

	weight := newBlendWeight
	result, err := opt.Run(optimizer.Request{
		Operation: optimizer.OperationNewBlend,
		Target:    &weight,
	})
	if err != nil {
		return err
	}
	return render(cmd, result)
}
