package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/aggregator"
	"fjacquet/spendtag/internal/duplicates"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipeline"
	"fjacquet/spendtag/internal/recurrence"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// newTable builds a bordered table. Columns listed in numeric are right-aligned.
func newTable(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		right[col] = true
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.String() + "\n"
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func writeText(w io.Writer, v interface{}) error {
	var out string
	switch x := v.(type) {
	case aggregator.Summary:
		out = summaryText(x)
	case *aggregator.Summary:
		out = summaryText(*x)
	case *pipeline.EnrichmentReport:
		out = enrichmentText(x)
	case []duplicates.Group:
		out = duplicatesText(x)
	case []models.RecurringTransaction:
		out = recurringText(x)
	case []models.Rule:
		out = rulesText(x)
	case []models.MerchantAlias:
		out = aliasesText(x)
	case []merchant.AliasSuggestion:
		out = aliasSuggestionsText(x)
	case []models.Transaction:
		out = transactionsText(x)
	default:
		return fmt.Errorf("no text layout for %T", v)
	}
	_, err := io.WriteString(w, out)
	return err
}

func summaryText(s aggregator.Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Spending by category") + "\n")
	rows := make([][]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		rows = append(rows, []string{c.Category.Label(), money(c.Total), c.Percentage.StringFixed(2) + "%", strconv.Itoa(c.Count)})
	}
	b.WriteString(newTable([]string{"Category", "Total", "Share", "Count"}, rows, 1, 2, 3))

	b.WriteString(titleStyle.Render("Fixed vs variable") + "\n")
	fv := s.FixedVariable
	b.WriteString(newTable([]string{"Fixed", "Variable", "Income", "Transfer"},
		[][]string{{money(fv.Fixed), money(fv.Variable), money(fv.Income), money(fv.Transfer)}}, 0, 1, 2, 3))

	b.WriteString(titleStyle.Render("Month over month ("+s.Month+")") + "\n")
	rows = rows[:0]
	for _, c := range s.MonthOverMonth {
		rows = append(rows, []string{c.Category.Label(), money(c.Previous), money(c.Current), money(c.Change), c.Percent.StringFixed(2) + "%"})
	}
	b.WriteString(newTable([]string{"Category", "Previous", "Current", "Change", "Change %"}, rows, 1, 2, 3, 4))

	b.WriteString(titleStyle.Render("Reimbursements") + "\n")
	rows = rows[:0]
	for _, l := range s.Reimbursements {
		status := string(l.Status)
		if status == "" {
			status = "-"
		}
		rows = append(rows, []string{l.Currency, status, money(l.Total), strconv.Itoa(l.Count)})
	}
	b.WriteString(newTable([]string{"Currency", "Status", "Total", "Count"}, rows, 2, 3))

	if len(s.Skipped) > 0 {
		fmt.Fprintf(&b, "%d split children skipped: parent missing\n", len(s.Skipped))
	}
	return b.String()
}

func enrichmentText(r *pipeline.EnrichmentReport) string {
	var b strings.Builder
	st := r.Stats
	b.WriteString(titleStyle.Render("Enrichment") + "\n")
	b.WriteString(newTable(
		[]string{"Total", "Suggested", "Unmatched", "Skipped", "Duplicates", "Recurring", "Warnings"},
		[][]string{{
			strconv.Itoa(st.Total), strconv.Itoa(st.Suggested), strconv.Itoa(st.Unmatched),
			strconv.Itoa(st.Skipped), strconv.Itoa(st.DuplicateGroups), strconv.Itoa(st.Recurring),
			strconv.Itoa(st.Warnings),
		}}, 0, 1, 2, 3, 4, 5, 6))

	if len(r.Suggestions) > 0 {
		rows := make([][]string, 0, len(r.Suggestions))
		for _, a := range r.Suggestions {
			s := a.Suggestion
			rows = append(rows, []string{a.TransactionID, string(s.Tag), s.Category.Label(), string(s.Confidence), s.Strategy, s.Reason})
		}
		b.WriteString(newTable([]string{"Transaction", "Tag", "Category", "Confidence", "Strategy", "Reason"}, rows))
	}
	for _, w := range r.Warnings {
		b.WriteString("warning: " + w.Error() + "\n")
	}
	return b.String()
}

func duplicatesText(groups []duplicates.Group) string {
	if len(groups) == 0 {
		return "No duplicates found.\n"
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Date.String(), g.MerchantKey, money(g.Amount), g.Currency, strings.Join(g.IDs, ", ")})
	}
	return newTable([]string{"Date", "Merchant", "Amount", "Currency", "Transactions"}, rows, 2)
}

func recurringText(rs []models.RecurringTransaction) string {
	if len(rs) == 0 {
		return "No recurring payments found.\n"
	}
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []string{
			r.Merchant, string(r.Frequency), money(r.AverageAmount), r.Currency,
			money(recurrence.MonthlyEquivalent(r)), r.LastOccurrence.String(), r.NextExpected().String(),
			strconv.Itoa(r.Occurrences),
		})
	}
	var b strings.Builder
	b.WriteString(newTable([]string{"Merchant", "Frequency", "Average", "Currency", "Monthly", "Last", "Next", "Seen"}, rows, 2, 4, 7))

	totals := recurrence.MonthlyRecurringTotal(rs)
	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	for _, c := range currencies {
		fmt.Fprintf(&b, "Monthly recurring total: %s %s\n", money(totals[c]), c)
	}
	return b.String()
}

func rulesText(rs []models.Rule) string {
	if len(rs) == 0 {
		return "No rules defined.\n"
	}
	rows := make([][]string, 0, len(rs))
	for i, r := range rs {
		match := r.Pattern
		if r.IsAdvanced() {
			conds := make([]string, 0, len(r.ActiveConditions()))
			for _, c := range r.ActiveConditions() {
				conds = append(conds, fmt.Sprintf("%s %s %s", c.Field, c.Operator, c.Value))
			}
			match = strings.Join(conds, " AND ")
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), r.ID, r.Name, match, string(r.Tag)})
	}
	return newTable([]string{"#", "ID", "Name", "Match", "Tag"}, rows, 0)
}

func aliasesText(as []models.MerchantAlias) string {
	if len(as) == 0 {
		return "No aliases defined.\n"
	}
	rows := make([][]string, 0, len(as))
	for _, a := range as {
		rows = append(rows, []string{a.ID, a.Canonical, strings.Join(a.ActiveVariants(), ", ")})
	}
	return newTable([]string{"ID", "Canonical", "Variants"}, rows)
}

func aliasSuggestionsText(ss []merchant.AliasSuggestion) string {
	if len(ss) == 0 {
		return "No alias suggestions.\n"
	}
	rows := make([][]string, 0, len(ss))
	for _, s := range ss {
		rows = append(rows, []string{s.Canonical, strings.Join(s.Variants, ", "), strconv.FormatFloat(s.Similarity, 'f', 2, 64), strconv.Itoa(s.Count)})
	}
	return newTable([]string{"Canonical", "Variants", "Similarity", "Transactions"}, rows, 2, 3)
}

func transactionsText(txs []models.Transaction) string {
	if len(txs) == 0 {
		return "No transactions.\n"
	}
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		tag := string(tx.Tag)
		if tx.AutoTagged {
			tag += "?"
		}
		name := tx.Merchant
		if name == "" {
			name = tx.Description
		}
		if tx.IsChild() {
			name = "  └ " + name
		}
		rows = append(rows, []string{tx.ID, tx.Date.String(), name, money(tx.Amount), tx.Currency, tag, tx.Category.Label(), string(tx.Status)})
	}
	return newTable([]string{"ID", "Date", "Merchant", "Amount", "Currency", "Tag", "Category", "Status"}, rows, 3)
}
