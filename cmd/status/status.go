// Package status moves reimbursable transactions through draft, submitted and paid.
package status

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
	"fjacquet/spendtag/internal/store"
)

// Cmd represents the status command
var Cmd = &cobra.Command{
	Use:   "status <id> [draft|submitted|paid]",
	Short: "Set or advance the reimbursement status of a transaction",
	Long: `Status sets the reimbursement status of a reimbursable transaction. Without a
status argument the transaction advances one step: draft, submitted, paid.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		var target models.ReimbursementStatus
		if len(args) == 2 {
			if target, err = models.ParseStatus(args[1]); err != nil {
				return err
			}
		}
		tx, err := setStatus(cmd.Context(), c, args[0], target)
		if err != nil {
			return err
		}
		return root.Render(cmd, []models.Transaction{tx})
	},
}

// setStatus applies target, or the next lifecycle step when target is empty.
func setStatus(ctx context.Context, c *container.Container, id string, target models.ReimbursementStatus) (models.Transaction, error) {
	s := c.GetTransactionStore()
	if target == models.StatusNone {
		txs, err := s.Load(ctx)
		if err != nil {
			return models.Transaction{}, err
		}
		i := models.FindByID(txs, id)
		if i < 0 {
			return models.Transaction{}, fmt.Errorf("transaction %s: %w", id, pipelineerror.ErrNotFound)
		}
		current := txs[i]
		if target, err = current.AdvanceStatus(); err != nil {
			return models.Transaction{}, err
		}
	}
	return s.Update(ctx, id, store.Patch{Status: &target})
}
