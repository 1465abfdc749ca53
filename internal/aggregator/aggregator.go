// Package aggregator computes spending analytics over ledger entries
// (see models.LedgerEntries). Every function is pure and recomputes from the
// snapshot it is given.
package aggregator

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/dateutils"
	"fjacquet/spendtag/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Window restricts which entries are aggregated. Zero dates are open bounds
// and an empty Currency keeps every currency.
type Window struct {
	From     civil.Date `json:"from" yaml:"from"`
	To       civil.Date `json:"to" yaml:"to"`
	Currency string     `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Contains reports whether tx falls inside the window.
func (w Window) Contains(tx models.Transaction) bool {
	if w.Currency != "" && tx.Currency != w.Currency {
		return false
	}
	return dateutils.InRange(tx.Date, w.From, w.To)
}

// spending keeps entries inside w that count for analytics: ignore-tagged
// entries are dropped.
func spending(entries []models.Transaction, w Window) []models.Transaction {
	out := make([]models.Transaction, 0, len(entries))
	for _, tx := range entries {
		if tx.Tag == models.TagIgnore || !w.Contains(tx) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category   models.Category `json:"category" yaml:"category"`
	Total      decimal.Decimal `json:"total" yaml:"total"`
	Percentage decimal.Decimal `json:"percentage" yaml:"percentage"`
	Count      int             `json:"count" yaml:"count"`
}

// CategoryBreakdown sums |amount| of debits per category, with each
// category's share of the total. Rows are sorted by total descending, then
// by category name.
func CategoryBreakdown(entries []models.Transaction, w Window) []CategoryTotal {
	totals := make(map[models.Category]*CategoryTotal)
	grand := decimal.Zero

	for _, tx := range spending(entries, w) {
		if !tx.IsDebit() {
			continue
		}
		row, ok := totals[tx.Category]
		if !ok {
			row = &CategoryTotal{Category: tx.Category, Total: decimal.Zero}
			totals[tx.Category] = row
		}
		row.Total = row.Total.Add(tx.AbsAmount())
		row.Count++
		grand = grand.Add(tx.AbsAmount())
	}

	out := make([]CategoryTotal, 0, len(totals))
	for _, row := range totals {
		if grand.IsPositive() {
			row.Percentage = row.Total.Div(grand).Mul(hundred).Round(2)
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category.Label() < out[j].Category.Label()
	})
	return out
}

// FixedVariable splits entries into four exclusive buckets, all as absolute sums.
type FixedVariable struct {
	Fixed    decimal.Decimal `json:"fixed" yaml:"fixed"`
	Variable decimal.Decimal `json:"variable" yaml:"variable"`
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Transfer decimal.Decimal `json:"transfer" yaml:"transfer"`
}

// FixedVariableSplit classifies each entry as transfer (category transfer),
// income (credit), fixed (debit in a fixed category) or variable (other debits).
func FixedVariableSplit(entries []models.Transaction, w Window) FixedVariable {
	fv := FixedVariable{Fixed: decimal.Zero, Variable: decimal.Zero, Income: decimal.Zero, Transfer: decimal.Zero}
	for _, tx := range spending(entries, w) {
		amount := tx.AbsAmount()
		switch {
		case tx.Category == models.CategoryTransfer:
			fv.Transfer = fv.Transfer.Add(amount)
		case tx.IsCredit():
			fv.Income = fv.Income.Add(amount)
		case tx.Category.IsFixed():
			fv.Fixed = fv.Fixed.Add(amount)
		case tx.IsDebit():
			fv.Variable = fv.Variable.Add(amount)
		}
	}
	return fv
}

// CategoryChange compares one category across two consecutive months.
type CategoryChange struct {
	Category models.Category `json:"category" yaml:"category"`
	Current  decimal.Decimal `json:"current" yaml:"current"`
	Previous decimal.Decimal `json:"previous" yaml:"previous"`
	Change   decimal.Decimal `json:"change" yaml:"change"`
	Percent  decimal.Decimal `json:"percent" yaml:"percent"`
}

// MonthOverMonth compares per-category debit totals of ref and the month before.
// Percent is change/previous*100 when previous is positive, otherwise 100 when
// current is positive and 0 when both are zero. The window's date bounds are
// replaced by the two months; its currency still applies.
func MonthOverMonth(entries []models.Transaction, ref dateutils.YearMonth, w Window) []CategoryChange {
	prev := ref.Prev()
	w.From, w.To = prev.FirstDay(), ref.LastDay()

	rows := make(map[models.Category]*CategoryChange)
	row := func(c models.Category) *CategoryChange {
		r, ok := rows[c]
		if !ok {
			r = &CategoryChange{Category: c, Current: decimal.Zero, Previous: decimal.Zero}
			rows[c] = r
		}
		return r
	}

	for _, tx := range spending(entries, w) {
		if !tx.IsDebit() {
			continue
		}
		switch {
		case ref.Contains(tx.Date):
			r := row(tx.Category)
			r.Current = r.Current.Add(tx.AbsAmount())
		case prev.Contains(tx.Date):
			r := row(tx.Category)
			r.Previous = r.Previous.Add(tx.AbsAmount())
		}
	}

	out := make([]CategoryChange, 0, len(rows))
	for _, r := range rows {
		r.Change = r.Current.Sub(r.Previous)
		switch {
		case r.Previous.IsPositive():
			r.Percent = r.Change.Div(r.Previous).Mul(hundred).Round(2)
		case r.Current.IsPositive():
			r.Percent = hundred
		default:
			r.Percent = decimal.Zero
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Current.Equal(out[j].Current) {
			return out[i].Current.GreaterThan(out[j].Current)
		}
		return out[i].Category.Label() < out[j].Category.Label()
	})
	return out
}

// CurrencyTotals sums |amount| of reimbursable entries per currency.
func CurrencyTotals(entries []models.Transaction, w Window) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range entries {
		if tx.Tag != models.TagReimbursable || !w.Contains(tx) {
			continue
		}
		totals[tx.Currency] = totals[tx.Currency].Add(tx.AbsAmount())
	}
	return totals
}

// ReimbursementLine is the reimbursable total for one currency and status.
type ReimbursementLine struct {
	Currency string                     `json:"currency" yaml:"currency"`
	Status   models.ReimbursementStatus `json:"status" yaml:"status"`
	Total    decimal.Decimal            `json:"total" yaml:"total"`
	Count    int                        `json:"count" yaml:"count"`
}

// ReimbursementSummary breaks reimbursable totals down by currency and
// lifecycle status, sorted by currency then status order.
func ReimbursementSummary(entries []models.Transaction, w Window) []ReimbursementLine {
	type key struct {
		currency string
		status   models.ReimbursementStatus
	}
	lines := make(map[key]*ReimbursementLine)
	for _, tx := range entries {
		if tx.Tag != models.TagReimbursable || !w.Contains(tx) {
			continue
		}
		k := key{tx.Currency, tx.Status}
		l, ok := lines[k]
		if !ok {
			l = &ReimbursementLine{Currency: tx.Currency, Status: tx.Status, Total: decimal.Zero}
			lines[k] = l
		}
		l.Total = l.Total.Add(tx.AbsAmount())
		l.Count++
	}

	out := make([]ReimbursementLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Currency != out[j].Currency {
			return out[i].Currency < out[j].Currency
		}
		return statusRank(out[i].Status) < statusRank(out[j].Status)
	})
	return out
}

func statusRank(s models.ReimbursementStatus) int {
	for i, st := range models.Statuses {
		if st == s {
			return i
		}
	}
	return len(models.Statuses)
}
