package categorizer

import (
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/merchant"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// FindSimilarTransactions returns non-child transactions other than target
// with the same merchant key and an amount within tolerance.
func FindSimilarTransactions(target models.Transaction, txs []models.Transaction, tolerance float64, aliases []models.MerchantAlias) []models.Transaction {
	key := merchant.TransactionKey(target, aliases)
	tol := decimal.NewFromFloat(tolerance)

	var out []models.Transaction
	for _, tx := range txs {
		if tx.ID == target.ID || tx.IsChild() {
			continue
		}
		if merchant.TransactionKey(tx, aliases) != key {
			continue
		}
		if !withinTolerance(target.AbsAmount(), tx.AbsAmount(), tol) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// SimilarForBulkApply narrows FindSimilarTransactions to transactions a bulk
// action may change: no manual tags and no split parents.
func SimilarForBulkApply(target models.Transaction, txs []models.Transaction, tolerance float64, aliases []models.MerchantAlias) []models.Transaction {
	var out []models.Transaction
	for _, tx := range FindSimilarTransactions(target, txs, tolerance, aliases) {
		if tx.IsManuallyTagged() || tx.IsSplit {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// ApplyTagToSimilar confirms tag on the target and on every transaction
// SimilarForBulkApply selects. It returns the updated copy and changed IDs.
func ApplyTagToSimilar(txs []models.Transaction, targetID string, tag models.Tag, tolerance float64, aliases []models.MerchantAlias, logger logging.Logger) ([]models.Transaction, []string, error) {
	idx := models.FindByID(txs, targetID)
	if idx < 0 {
		return nil, nil, pipelineerror.NewValidationError("transaction", targetID, pipelineerror.ErrNotFound, "transaction not found")
	}
	target := txs[idx]

	out := models.CloneAll(txs)
	if err := out[idx].ConfirmTag(tag); err != nil {
		return nil, nil, err
	}
	changed := []string{targetID}

	for _, similar := range SimilarForBulkApply(target, txs, tolerance, aliases) {
		i := models.FindByID(out, similar.ID)
		if err := out[i].ConfirmTag(tag); err != nil {
			return nil, nil, err
		}
		changed = append(changed, similar.ID)
	}

	logging.OrDiscard(logger).Info("Tag applied to similar transactions",
		logging.Field{Key: logging.FieldTransactionID, Value: targetID},
		logging.Field{Key: logging.FieldTag, Value: tag},
		logging.Field{Key: logging.FieldCount, Value: len(changed)})
	return out, changed, nil
}

// ApproveHighConfidence confirms every high-confidence suggestion. Tag and
// category values are left as they are.
func ApproveHighConfidence(txs []models.Transaction) ([]models.Transaction, []string) {
	out := models.CloneAll(txs)
	var approved []string
	for i := range out {
		if out[i].AutoTagged && out[i].TagConfidence == models.ConfidenceHigh {
			out[i].AutoTagged = false
			approved = append(approved, out[i].ID)
		}
	}
	return out, approved
}

func secondsToDuration(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
