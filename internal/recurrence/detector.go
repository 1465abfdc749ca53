// Package recurrence infers periodic payments (subscriptions, rent, insurance)
// from the spacing of a merchant's debits.
package recurrence

import (
	"fmt"
	"math"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/dateutils"
	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// DefaultTolerance is the accepted relative deviation of a gap from its reference interval.
const DefaultTolerance = 0.2

type reference struct {
	frequency models.Frequency
	days      float64
}

// Reference intervals in days, ordered from shortest.
var references = []reference{
	{models.FrequencyWeekly, 7},
	{models.FrequencyMonthly, 30.44},
	{models.FrequencyQuarterly, 91.31},
	{models.FrequencyYearly, 365.25},
}

// Detector finds recurring payments.
type Detector struct {
	Tolerance float64
	aliases   []models.MerchantAlias
	logger    logging.Logger
}

// NewDetector creates a detector. A non-positive tolerance selects DefaultTolerance.
func NewDetector(tolerance float64, aliases []models.MerchantAlias, logger logging.Logger) *Detector {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Detector{Tolerance: tolerance, aliases: aliases, logger: logging.OrDiscard(logger)}
}

// DetectRecurring runs a default detector and drops the warnings.
func DetectRecurring(txs []models.Transaction, aliases []models.MerchantAlias) []models.RecurringTransaction {
	found, _ := NewDetector(DefaultTolerance, aliases, nil).Detect(txs)
	return found
}

type groupKey struct {
	merchant string
	currency string
}

// Detect groups non-child debits by merchant key and currency and classifies
// each group with at least two distinct dates. Groups whose gaps do not fit
// one reference interval are returned as warnings instead. Results are sorted
// by merchant key.
func (d *Detector) Detect(txs []models.Transaction) ([]models.RecurringTransaction, []*pipelineerror.IntegrityWarning) {
	groups := make(map[groupKey][]models.Transaction)
	for _, tx := range txs {
		if tx.IsChild() || !tx.IsDebit() {
			continue
		}
		k := groupKey{merchant: merchant.TransactionKey(tx, d.aliases), currency: tx.Currency}
		if k.merchant == "" {
			continue
		}
		groups[k] = append(groups[k], tx)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].merchant != keys[j].merchant {
			return keys[i].merchant < keys[j].merchant
		}
		return keys[i].currency < keys[j].currency
	})

	var (
		found    []models.RecurringTransaction
		warnings []*pipelineerror.IntegrityWarning
	)
	for _, k := range keys {
		members := groups[k]
		sort.SliceStable(members, func(i, j int) bool { return members[i].Date.Before(members[j].Date) })

		dates := distinctDates(members)
		if len(dates) < 2 {
			continue
		}

		freq, err := d.classify(gaps(dates))
		if err != nil {
			w := &pipelineerror.IntegrityWarning{
				Kind:    pipelineerror.WarningRecurrenceRejected,
				Subject: k.merchant,
				Detail:  err.Error(),
			}
			d.logger.Debug("Recurring candidate rejected",
				logging.Field{Key: logging.FieldMerchant, Value: k.merchant},
				logging.Field{Key: logging.FieldReason, Value: w.Detail})
			warnings = append(warnings, w)
			continue
		}
		found = append(found, d.summarize(k, members, freq))
	}
	return found, warnings
}

func (d *Detector) summarize(k groupKey, members []models.Transaction, freq models.Frequency) models.RecurringTransaction {
	latest := members[len(members)-1]
	total := decimal.Zero
	ids := make([]string, len(members))
	for i, m := range members {
		total = total.Add(m.AbsAmount())
		ids[i] = m.ID
	}

	display, ok := merchant.Normalize(latest.Merchant, d.aliases)
	if !ok && display == "" {
		display = latest.Description
	}

	return models.RecurringTransaction{
		MerchantKey:    k.merchant,
		Merchant:       display,
		Frequency:      freq,
		AverageAmount:  models.RoundAmount(total.Div(decimal.NewFromInt(int64(len(members))))),
		Currency:       k.currency,
		LastOccurrence: latest.Date,
		Category:       dominantCategory(members),
		Occurrences:    len(members),
		TransactionIDs: ids,
	}
}

// classify picks the reference nearest the mean gap and checks every gap against it.
func (d *Detector) classify(gaps []int) (models.Frequency, error) {
	var sum float64
	for _, g := range gaps {
		sum += float64(g)
	}
	mean := sum / float64(len(gaps))

	best := references[0]
	bestDev := math.Inf(1)
	for _, ref := range references {
		dev := math.Abs(mean-ref.days) / ref.days
		if dev < bestDev {
			best, bestDev = ref, dev
		}
	}

	for _, g := range gaps {
		dev := math.Abs(float64(g)-best.days) / best.days
		if dev > d.Tolerance {
			return "", fmt.Errorf("gap of %d days deviates %.0f%% from %s interval", g, dev*100, best.frequency)
		}
	}
	return best.frequency, nil
}

func distinctDates(sorted []models.Transaction) []civil.Date {
	var dates []civil.Date
	for _, tx := range sorted {
		if len(dates) == 0 || dates[len(dates)-1] != tx.Date {
			dates = append(dates, tx.Date)
		}
	}
	return dates
}

func gaps(dates []civil.Date) []int {
	out := make([]int, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		out = append(out, dateutils.DaysBetween(dates[i-1], dates[i]))
	}
	return out
}

// dominantCategory returns the most frequent category, preferring the latest
// occurrence's category on a tie. Members must be sorted by date.
func dominantCategory(members []models.Transaction) models.Category {
	counts := make(map[models.Category]int)
	for _, m := range members {
		if m.Category != models.CategoryNone {
			counts[m.Category]++
		}
	}
	var (
		best      models.Category
		bestCount int
	)
	for i := len(members) - 1; i >= 0; i-- {
		c := members[i].Category
		if c == models.CategoryNone {
			continue
		}
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}
