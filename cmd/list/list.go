// Package list prints the stored transactions.
package list

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/models"
)

var (
	untagged bool
	merchant string
)

// Cmd represents the list command
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	Long: `List prints the stored transactions, split children under their parent.
Suggested tags that are not confirmed yet carry a trailing "?".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		txs, err := list(cmd.Context(), c, untagged, merchant)
		if err != nil {
			return err
		}
		return root.Render(cmd, txs)
	},
}

func init() {
	Cmd.Flags().BoolVarP(&untagged, "untagged", "u", false, "Only transactions without a confirmed tag")
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Only merchants containing this text")
}

func list(ctx context.Context, c *container.Container, untagged bool, merchantFilter string) ([]models.Transaction, error) {
	txs, err := c.GetTransactionStore().Load(ctx)
	if err != nil {
		return nil, err
	}
	children := models.ChildrenIndex(txs)
	needle := strings.ToUpper(strings.TrimSpace(merchantFilter))

	out := make([]models.Transaction, 0, len(txs))
	listed := make(map[string]bool, len(txs))
	for _, tx := range models.TopLevel(txs) {
		listed[tx.ID] = true
		if untagged && tx.IsManuallyTagged() {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToUpper(tx.Merchant+" "+tx.Description), needle) {
			continue
		}
		out = append(out, tx)
		out = append(out, children[tx.ID]...)
	}
	// Children whose parent is gone still show up, last.
	for _, tx := range txs {
		if tx.IsChild() && !listed[tx.ParentID] && !untagged && needle == "" {
			out = append(out, tx)
		}
	}
	return out, nil
}
