// Package split divides one transaction across several tags and reverses it.
package split

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/common"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/split"
)

// Cmd represents the split command
var Cmd = &cobra.Command{
	Use:   "split <id> <percentage:tag[:category]>...",
	Short: "Split a transaction into tagged parts",
	Long: `Split divides a transaction into two or more children, one per allocation.
Percentages must add up to 100; the last child absorbs any rounding so the
children always sum to the parent amount.

Example:
  spendtag split 4f1c 60:reimbursable:travel 40:personal`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		children, err := splitTransaction(cmd.Context(), c, args[0], args[1:])
		if err != nil {
			return err
		}
		return root.Render(cmd, children)
	},
}

// UnsplitCmd represents the unsplit command
var UnsplitCmd = &cobra.Command{
	Use:   "unsplit <id>",
	Short: "Remove the parts of a split transaction",
	Long:  `Unsplit deletes every child of a split transaction and makes the parent taggable again.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		parent, err := unsplitTransaction(cmd.Context(), c, args[0])
		if err != nil {
			return err
		}
		return root.Render(cmd, []models.Transaction{parent})
	},
}

func splitTransaction(ctx context.Context, c *container.Container, id string, specs []string) ([]models.Transaction, error) {
	allocations := make([]split.Allocation, 0, len(specs))
	for _, spec := range specs {
		a, err := split.ParseAllocation(spec)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}

	txs, err := c.GetTransactionStore().Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading transactions: %w", err)
	}
	updated, children, err := c.GetSplitManager().Split(txs, id, allocations)
	if err != nil {
		return nil, err
	}
	if err := common.SaveTransactions(ctx, c, updated); err != nil {
		return nil, err
	}
	return children, nil
}

func unsplitTransaction(ctx context.Context, c *container.Container, id string) (models.Transaction, error) {
	txs, err := c.GetTransactionStore().Load(ctx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("error loading transactions: %w", err)
	}
	updated, err := c.GetSplitManager().Unsplit(txs, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if err := common.SaveTransactions(ctx, c, updated); err != nil {
		return models.Transaction{}, err
	}
	return updated[models.FindByID(updated, id)], nil
}
