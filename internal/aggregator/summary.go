package aggregator

import (
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/dateutils"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// Summary bundles every analytic for one window.
type Summary struct {
	Window         Window                            `json:"window" yaml:"window"`
	Month          string                            `json:"month" yaml:"month"`
	Categories     []CategoryTotal                   `json:"categories" yaml:"categories"`
	FixedVariable  FixedVariable                     `json:"fixed_variable" yaml:"fixed_variable"`
	MonthOverMonth []CategoryChange                  `json:"month_over_month" yaml:"month_over_month"`
	Reimbursable   map[string]decimal.Decimal        `json:"reimbursable" yaml:"reimbursable"`
	Reimbursements []ReimbursementLine               `json:"reimbursements" yaml:"reimbursements"`
	Skipped        []*pipelineerror.MissingDataError `json:"-" yaml:"-"`
}

// Summarize derives ledger entries from a full snapshot and computes every
// analytic. Orphan children are skipped and logged.
func Summarize(txs []models.Transaction, w Window, ref dateutils.YearMonth, logger logging.Logger) Summary {
	entries, orphans := models.LedgerEntries(txs)
	logger = logging.OrDiscard(logger)
	for _, o := range orphans {
		logger.Warn("Skipping split child without split parent",
			logging.Field{Key: logging.FieldTransactionID, Value: o.ID},
			logging.Field{Key: logging.FieldParentID, Value: o.Reference})
	}

	return Summary{
		Window:         w,
		Month:          ref.String(),
		Categories:     CategoryBreakdown(entries, w),
		FixedVariable:  FixedVariableSplit(entries, w),
		MonthOverMonth: MonthOverMonth(entries, ref, w),
		Reimbursable:   CurrencyTotals(entries, w),
		Reimbursements: ReimbursementSummary(entries, w),
		Skipped:        orphans,
	}
}
