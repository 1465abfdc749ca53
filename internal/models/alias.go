package models

import "strings"

// MerchantAlias maps raw merchant spellings onto one display name.
type MerchantAlias struct {
	ID        string   `json:"id" yaml:"id"`
	Canonical string   `json:"canonical" yaml:"canonical"`
	Variants  []string `json:"variants" yaml:"variants"`
}

// ActiveVariants returns the trimmed, non-blank variants.
func (a MerchantAlias) ActiveVariants() []string {
	out := make([]string, 0, len(a.Variants))
	for _, v := range a.Variants {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
