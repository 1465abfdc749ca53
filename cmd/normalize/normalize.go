// Package normalize rewrites merchant names to their alias display names.
package normalize

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/common"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
)

// Cmd represents the normalize command
var Cmd = &cobra.Command{
	Use:   "normalize",
	Short: "Apply merchant aliases to the stored transactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		changed, err := normalize(cmd.Context(), c)
		if err != nil {
			return err
		}
		return root.Render(cmd, changed)
	},
}

func normalize(ctx context.Context, c *container.Container) ([]models.Transaction, error) {
	snap, err := common.LoadSnapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	updated, ids := merchant.Apply(snap.Transactions, snap.Aliases)
	if len(ids) > 0 {
		if err := common.SaveTransactions(ctx, c, updated); err != nil {
			return nil, err
		}
	}
	return common.Select(updated, ids), nil
}
