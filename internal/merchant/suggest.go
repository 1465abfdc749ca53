package merchant

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// AliasSuggestion is a group of merchant spellings that probably name the same business.
type AliasSuggestion struct {
	Token      string   // shared first token, lower-cased
	Canonical  string   // proposed display name
	Variants   []string // distinct raw spellings, sorted
	Similarity float64  // mean pairwise similarity in [0,1]
	Count      int      // transactions covered
}

// SuggestAliases groups merchants that share their first whitespace-delimited
// token and are not yet covered by an alias. Only groups with two or more
// spellings are returned, best-scoring first.
func SuggestAliases(txs []models.Transaction, aliases []models.MerchantAlias) []AliasSuggestion {
	type group struct {
		spellings map[string]int
		order     []string
	}
	groups := make(map[string]*group)

	for _, tx := range txs {
		if tx.IsChild() {
			continue
		}
		raw := strings.Join(strings.Fields(tx.Merchant), " ")
		if raw == "" {
			continue
		}
		if _, covered := Normalize(raw, aliases); covered {
			continue
		}
		token := strings.ToLower(strings.Fields(raw)[0])
		g, ok := groups[token]
		if !ok {
			g = &group{spellings: make(map[string]int)}
			groups[token] = g
		}
		if _, seen := g.spellings[raw]; !seen {
			g.order = append(g.order, raw)
		}
		g.spellings[raw]++
	}

	var out []AliasSuggestion
	for token, g := range groups {
		if len(g.order) < 2 {
			continue
		}
		variants := append([]string(nil), g.order...)
		sort.Strings(variants)
		count := 0
		for _, n := range g.spellings {
			count += n
		}
		out = append(out, AliasSuggestion{
			Token:      token,
			Canonical:  canonicalFor(g.order[0]),
			Variants:   variants,
			Similarity: meanSimilarity(variants),
			Count:      count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Token < out[j].Token
	})
	return out
}

// ToAlias turns a suggestion into an alias ready for validation and storage.
func (s AliasSuggestion) ToAlias() models.MerchantAlias {
	return models.MerchantAlias{Canonical: s.Canonical, Variants: append([]string(nil), s.Variants...)}
}

// Similarity returns 1 - distance/maxLen on upper-cased inputs.
func Similarity(a, b string) float64 {
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

func meanSimilarity(variants []string) float64 {
	var sum float64
	pairs := 0
	for i := 0; i < len(variants); i++ {
		for j := i + 1; j < len(variants); j++ {
			sum += Similarity(variants[i], variants[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 1
	}
	return sum / float64(pairs)
}

// canonicalFor proposes the shared first token in title case,
// e.g. "CAREEM HALA" and "Careem Food" become "Careem".
func canonicalFor(spelling string) string {
	runes := []rune(strings.ToLower(strings.Fields(spelling)[0]))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func invalidAlias(id, reason string) error {
	return pipelineerror.NewValidationError("alias", id, pipelineerror.ErrInvalidAlias, "%s", reason)
}
