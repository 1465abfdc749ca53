package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"Simple", "123.45", "123.45", false},
		{"Negative", "-200", "-200", false},
		{"CommaDecimal", "123,45", "123.45", false},
		{"EuropeanThousands", "-1.234,56", "-1234.56", false},
		{"EnglishThousands", "1,234.56", "1234.56", false},
		{"SwissApostrophe", "1'234.56", "1234.56", false},
		{"CurrencyCode", "AED -39.00", "-39", false},
		{"ExplicitPlus", "+15", "15", false},
		{"Empty", "", "", true},
		{"Letters", "abc", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(got), "got %s", got)
		})
	}
}

func TestMoney(t *testing.T) {
	a := NewMoney(decimal.RequireFromString("10.5"), "AED")
	b := NewMoney(decimal.RequireFromString("0.25"), "AED")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "10.75 AED", sum.String())

	_, err = a.Add(NewMoney(decimal.NewFromInt(1), "EUR"))
	assert.Error(t, err)

	assert.Equal(t, "0.67", RoundAmount(decimal.RequireFromString("0.665")).StringFixed(2))
}
