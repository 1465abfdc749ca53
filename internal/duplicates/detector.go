// Package duplicates flags transactions that look like the same charge imported twice.
package duplicates

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// Group is a set of transactions sharing one duplicate signature.
type Group struct {
	Date        civil.Date      `json:"date" yaml:"date"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"` // absolute amount of the first member
	Currency    string          `json:"currency" yaml:"currency"`
	MerchantKey string          `json:"merchant_key" yaml:"merchant_key"`
	IDs         []string        `json:"ids" yaml:"ids"`
}

// Signature renders the grouping key for display and ordering.
func (g Group) Signature() string {
	return fmt.Sprintf("%s|%s|%s|%s", g.Date, g.Amount.StringFixed(2), g.Currency, g.MerchantKey)
}

// Warning converts the group into an integrity warning for reports.
func (g Group) Warning() *pipelineerror.IntegrityWarning {
	return &pipelineerror.IntegrityWarning{
		Kind:    pipelineerror.WarningDuplicate,
		Subject: g.Signature(),
		Detail:  fmt.Sprintf("%d transactions share date, amount, currency and merchant: %v", len(g.IDs), g.IDs),
	}
}

// Detector groups candidate duplicates. It only reports; nothing is removed.
type Detector struct {
	// AmountTolerance is the relative amount difference still treated as equal.
	// Zero requires an exact match.
	AmountTolerance decimal.Decimal
	aliases         []models.MerchantAlias
	logger          logging.Logger
}

// NewDetector creates a detector using aliases for merchant keys.
func NewDetector(tolerance float64, aliases []models.MerchantAlias, logger logging.Logger) *Detector {
	return &Detector{
		AmountTolerance: decimal.NewFromFloat(tolerance),
		aliases:         aliases,
		logger:          logging.OrDiscard(logger),
	}
}

// FindDuplicates groups non-child transactions by exact signature.
func FindDuplicates(txs []models.Transaction, aliases []models.MerchantAlias) []Group {
	return NewDetector(0, aliases, nil).FindDuplicates(txs)
}

// FindDuplicates returns every group of two or more non-child transactions
// sharing date, absolute amount, currency and merchant key. Groups are ordered
// by date, merchant key, then signature, and members keep input order.
func (d *Detector) FindDuplicates(txs []models.Transaction) []Group {
	type bucketKey struct {
		date     civil.Date
		currency string
		merchant string
	}
	buckets := make(map[bucketKey][]models.Transaction)
	var keys []bucketKey

	for _, tx := range txs {
		if tx.IsChild() {
			continue
		}
		k := bucketKey{date: tx.Date, currency: tx.Currency, merchant: merchant.TransactionKey(tx, d.aliases)}
		if _, ok := buckets[k]; !ok {
			keys = append(keys, k)
		}
		buckets[k] = append(buckets[k], tx)
	}

	var groups []Group
	for _, k := range keys {
		for _, members := range d.clusterByAmount(buckets[k]) {
			if len(members) < 2 {
				continue
			}
			ids := make([]string, len(members))
			for i, m := range members {
				ids[i] = m.ID
			}
			groups = append(groups, Group{
				Date:        k.date,
				Amount:      members[0].AbsAmount(),
				Currency:    k.currency,
				MerchantKey: k.merchant,
				IDs:         ids,
			})
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Date != groups[j].Date {
			return groups[i].Date.Before(groups[j].Date)
		}
		if groups[i].MerchantKey != groups[j].MerchantKey {
			return groups[i].MerchantKey < groups[j].MerchantKey
		}
		return groups[i].Signature() < groups[j].Signature()
	})

	if len(groups) > 0 {
		d.logger.Info("Possible duplicate transactions found",
			logging.Field{Key: logging.FieldCount, Value: len(groups)})
	}
	return groups
}

// clusterByAmount assigns each transaction to the first cluster whose anchor
// amount is within tolerance, preserving input order.
func (d *Detector) clusterByAmount(txs []models.Transaction) [][]models.Transaction {
	var clusters [][]models.Transaction
	for _, tx := range txs {
		placed := false
		for i, c := range clusters {
			if d.amountsMatch(c[0].AbsAmount(), tx.AbsAmount()) {
				clusters[i] = append(clusters[i], tx)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []models.Transaction{tx})
		}
	}
	return clusters
}

func (d *Detector) amountsMatch(a, b decimal.Decimal) bool {
	if a.Equal(b) {
		return true
	}
	if d.AmountTolerance.IsZero() || a.IsZero() {
		return false
	}
	return a.Sub(b).Abs().Div(a).LessThanOrEqual(d.AmountTolerance)
}
