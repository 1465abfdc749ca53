// Package tag confirms a tag on one transaction, optionally on similar ones too.
package tag

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/common"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/categorizer"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/store"
)

var (
	similar  bool
	category string
)

// Cmd represents the tag command
var Cmd = &cobra.Command{
	Use:   "tag <id> <personal|reimbursable|ignore>",
	Short: "Confirm the tag of a transaction",
	Long: `Tag records a user decision on a transaction. Confirmed tags are never
overwritten by suggestions. With --similar the tag is also confirmed on every
transaction from the same merchant with a close amount that has no confirmed
tag yet.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		tag, err := models.ParseTag(args[1])
		if err != nil {
			return err
		}
		cat, err := models.ParseCategory(category)
		if err != nil {
			return err
		}
		changed, err := tagTransaction(cmd.Context(), c, args[0], tag, cat, similar)
		if err != nil {
			return err
		}
		return root.Render(cmd, changed)
	},
}

func init() {
	Cmd.Flags().BoolVarP(&similar, "similar", "s", false, "Also tag similar transactions")
	Cmd.Flags().StringVar(&category, "category", "", "Category to set on the transaction")
}

func tagTransaction(ctx context.Context, c *container.Container, id string, tag models.Tag, cat models.Category, similar bool) ([]models.Transaction, error) {
	if !similar {
		patch := store.Patch{Tag: &tag}
		if cat != models.CategoryNone {
			patch.Category = &cat
		}
		tx, err := c.GetTransactionStore().Update(ctx, id, patch)
		if err != nil {
			return nil, err
		}
		return []models.Transaction{tx}, nil
	}

	snap, err := common.LoadSnapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	updated, changed, err := categorizer.ApplyTagToSimilar(snap.Transactions, id, tag,
		c.GetConfig().Matching.SimilarityTolerance, snap.Aliases, c.GetLogger())
	if err != nil {
		return nil, err
	}
	if cat != models.CategoryNone {
		updated[models.FindByID(updated, id)].Category = cat
	}
	if err := common.SaveTransactions(ctx, c, updated); err != nil {
		return nil, err
	}
	return common.Select(updated, changed), nil
}
