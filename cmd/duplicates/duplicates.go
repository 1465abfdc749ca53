// Package duplicates lists probable duplicate transactions.
package duplicates

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/common"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/duplicates"
	"fjacquet/spendtag/internal/logging"
)

// Cmd represents the duplicates command
var Cmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List groups of probable duplicate transactions",
	Long: `Duplicates groups top-level transactions sharing date, merchant, currency and
amount. Groups are reported only; nothing is merged or deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		groups, err := find(cmd.Context(), c)
		if err != nil {
			return err
		}
		return root.Render(cmd, groups)
	},
}

func find(ctx context.Context, c *container.Container) ([]duplicates.Group, error) {
	snap, err := common.LoadSnapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	d := duplicates.NewDetector(c.GetConfig().Matching.DuplicateAmountTolerance, snap.Aliases, c.GetLogger())
	groups := d.FindDuplicates(snap.Transactions)
	if groups == nil {
		groups = []duplicates.Group{}
	}
	c.GetLogger().Debug("Duplicate scan finished", logging.Field{Key: logging.FieldCount, Value: len(groups)})
	return groups, nil
}
