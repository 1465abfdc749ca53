// Package report prints spending analytics for a period.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"fjacquet/spendtag/cmd/root"
	"fjacquet/spendtag/internal/aggregator"
	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/dateutils"
	"fjacquet/spendtag/internal/models"
)

// options selects the reporting window.
type options struct {
	Month    string
	From     string
	To       string
	Currency string
	All      bool
}

var opts options

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize spending by category, fixed costs and reimbursements",
	Long: `Report prints the category breakdown, the fixed/variable split, the change
against the previous month and the reimbursable totals.

The reference month defaults to the month of the latest transaction. Without
--from/--to the window is that month; --all removes the date bounds.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		summary, err := summarize(cmd.Context(), c, opts)
		if err != nil {
			return err
		}
		return root.Render(cmd, summary)
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Month, "month", "m", "", "Reference month YYYY-MM")
	Cmd.Flags().StringVar(&opts.From, "from", "", "First day of the window")
	Cmd.Flags().StringVar(&opts.To, "to", "", "Last day of the window")
	Cmd.Flags().StringVar(&opts.Currency, "currency", "", "Only this currency (default: all currencies)")
	Cmd.Flags().BoolVar(&opts.All, "all", false, "Use every transaction regardless of date")
}

func summarize(ctx context.Context, c *container.Container, o options) (aggregator.Summary, error) {
	txs, err := c.GetTransactionStore().Load(ctx)
	if err != nil {
		return aggregator.Summary{}, err
	}
	ref, err := referenceMonth(o.Month, txs)
	if err != nil {
		return aggregator.Summary{}, err
	}
	w, err := window(o, ref)
	if err != nil {
		return aggregator.Summary{}, err
	}
	return aggregator.Summarize(txs, w, ref, c.GetLogger()), nil
}

func referenceMonth(month string, txs []models.Transaction) (dateutils.YearMonth, error) {
	if month != "" {
		return dateutils.ParseYearMonth(month)
	}
	var latest civil.Date
	for _, tx := range txs {
		if latest.IsZero() || tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	if latest.IsZero() {
		latest = civil.DateOf(time.Now())
	}
	return dateutils.YearMonthOf(latest), nil
}

func window(o options, ref dateutils.YearMonth) (aggregator.Window, error) {
	w := aggregator.Window{Currency: strings.ToUpper(strings.TrimSpace(o.Currency))}
	switch {
	case o.All:
	case o.From == "" && o.To == "":
		w.From, w.To = ref.FirstDay(), ref.LastDay()
	default:
		var err error
		if o.From != "" {
			if w.From, err = dateutils.ParseDate(o.From); err != nil {
				return w, fmt.Errorf("invalid --from: %w", err)
			}
		}
		if o.To != "" {
			if w.To, err = dateutils.ParseDate(o.To); err != nil {
				return w, fmt.Errorf("invalid --to: %w", err)
			}
		}
		if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
			return w, fmt.Errorf("--to %s is before --from %s", w.To, w.From)
		}
	}
	return w, nil
}
