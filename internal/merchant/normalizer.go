// Package merchant maps raw merchant strings onto canonical display names.
package merchant

import (
	"strings"

	"fjacquet/spendtag/internal/models"
)

// Normalize returns the canonical name of the first alias whose variant equals
// raw or is contained in it, compared case-insensitively. Aliases are scanned
// in order, and within an alias its variants are scanned in order.
func Normalize(raw string, aliases []models.MerchantAlias) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return raw, false
	}
	for _, alias := range aliases {
		if strings.TrimSpace(alias.Canonical) == "" {
			continue
		}
		for _, variant := range alias.ActiveVariants() {
			v := strings.ToLower(variant)
			if lowered == v || strings.Contains(lowered, v) {
				return alias.Canonical, true
			}
		}
	}
	return raw, false
}

// Key returns the grouping key for a merchant: the alias canonical name when
// one matches, lower-cased and whitespace-collapsed either way.
func Key(raw string, aliases []models.MerchantAlias) string {
	name, _ := Normalize(raw, aliases)
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// TransactionKey keys tx by its merchant, falling back to the description.
func TransactionKey(tx models.Transaction, aliases []models.MerchantAlias) string {
	if strings.TrimSpace(tx.Merchant) != "" {
		return Key(tx.Merchant, aliases)
	}
	return Key(tx.Description, aliases)
}

// Apply rewrites each merchant to its canonical name and returns the updated
// copy along with the IDs that changed. The input slice is not modified.
func Apply(txs []models.Transaction, aliases []models.MerchantAlias) ([]models.Transaction, []string) {
	out := models.CloneAll(txs)
	var changed []string
	for i := range out {
		canonical, ok := Normalize(out[i].Merchant, aliases)
		if !ok || canonical == out[i].Merchant {
			continue
		}
		out[i].Merchant = canonical
		changed = append(changed, out[i].ID)
	}
	return out, changed
}

// ValidateAlias rejects aliases without a canonical name or without variants.
func ValidateAlias(alias models.MerchantAlias) error {
	if strings.TrimSpace(alias.Canonical) == "" {
		return invalidAlias(alias.ID, "canonical name is required")
	}
	if len(alias.ActiveVariants()) == 0 {
		return invalidAlias(alias.ID, "at least one variant is required")
	}
	return nil
}
