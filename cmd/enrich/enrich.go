// Package enrich runs the full enrichment pipeline over the stored transactions.
package enrich

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/common"
	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/pipeline"
)

var dryRun bool

// Cmd represents the enrich command
var Cmd = &cobra.Command{
	Use:   "enrich",
	Short: "Normalize merchants, suggest tags and report duplicates and recurring payments",
	Long: `Enrich runs every stage over the stored transactions: merchant aliases are
applied, tags are suggested for untagged or still auto-tagged transactions, and
duplicate groups, recurring payments and split inconsistencies are reported.
Manually confirmed tags are never changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		rep, err := enrich(cmd.Context(), c, dryRun)
		if err != nil {
			return err
		}
		return root.Render(cmd, rep)
	},
}

func init() {
	Cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report without saving the enriched transactions")
}

func enrich(ctx context.Context, c *container.Container, dryRun bool) (*pipeline.EnrichmentReport, error) {
	snap, err := common.LoadSnapshot(ctx, c)
	if err != nil {
		return nil, err
	}
	rep, err := c.GetEnricher().Run(ctx, snap.Transactions, snap.Rules, snap.Aliases)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return rep, nil
	}
	if err := common.SaveTransactions(ctx, c, rep.Transactions); err != nil {
		return nil, err
	}
	return rep, nil
}
