// Package recurring lists detected recurring payments.
package recurring

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/common"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/recurrence"
)

// Cmd represents the recurring command
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "List recurring payments and their monthly cost",
	Long: `Recurring detects subscriptions and other periodic debits (weekly, monthly,
quarterly or yearly) and shows the expected next charge and the monthly
equivalent per currency.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		rs, err := detect(cmd.Context(), c)
		if err != nil {
			return err
		}
		return root.Render(cmd, rs)
	},
}

func detect(ctx context.Context, c *container.Container) ([]models.RecurringTransaction, error) {
	snap, err := common.LoadSnapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	d := recurrence.NewDetector(c.GetConfig().Recurrence.Tolerance, snap.Aliases, c.GetLogger())
	rs, warnings := d.Detect(snap.Transactions)
	for _, w := range warnings {
		c.GetLogger().WithError(w).Debug("Irregular payment group skipped")
	}
	if rs == nil {
		rs = []models.RecurringTransaction{}
	}
	return rs, nil
}
