// Package approve confirms high-confidence suggestions in bulk.
package approve

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/common"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/categorizer"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
)

// Cmd represents the approve command
var Cmd = &cobra.Command{
	Use:   "approve",
	Short: "Confirm every high-confidence suggestion",
	Long: `Approve turns every high-confidence suggested tag (rule matches) into a
confirmed tag. Tag and category values stay as they are.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		approved, err := approve(cmd.Context(), c)
		if err != nil {
			return err
		}
		return root.Render(cmd, approved)
	},
}

func approve(ctx context.Context, c *container.Container) ([]models.Transaction, error) {
	txs, err := c.GetTransactionStore().Load(ctx)
	if err != nil {
		return nil, err
	}
	updated, ids := categorizer.ApproveHighConfidence(txs)
	if len(ids) > 0 {
		if err := common.SaveTransactions(ctx, c, updated); err != nil {
			return nil, err
		}
	}
	c.GetLogger().Info("Suggestions approved", logging.Field{Key: logging.FieldCount, Value: len(ids)})
	return common.Select(updated, ids), nil
}
