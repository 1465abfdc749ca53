package dateutils

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    civil.Date
		wantErr bool
	}{
		{"ISO", "2024-03-15", civil.Date{Year: 2024, Month: time.March, Day: 15}, false},
		{"European", "15.03.2024", civil.Date{Year: 2024, Month: time.March, Day: 15}, false},
		{"SlashDayFirst", "05/03/2024", civil.Date{Year: 2024, Month: time.March, Day: 5}, false},
		{"WithTime", "2024-03-15 10:11:12", civil.Date{Year: 2024, Month: time.March, Day: 15}, false},
		{"Padded", "  2024-03-15 ", civil.Date{Year: 2024, Month: time.March, Day: 15}, false},
		{"MonthName", "Mar 15, 2024", civil.Date{Year: 2024, Month: time.March, Day: 15}, false},
		{"Empty", "", civil.Date{}, true},
		{"Garbage", "not a date", civil.Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysBetweenAndAddMonths(t *testing.T) {
	a := civil.Date{Year: 2024, Month: time.January, Day: 31}
	b := civil.Date{Year: 2024, Month: time.March, Day: 1}

	assert.Equal(t, 30, DaysBetween(a, b))
	assert.Equal(t, -30, DaysBetween(b, a))
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 2}, AddMonths(a, 1))
	assert.Equal(t, civil.Date{Year: 2023, Month: time.December, Day: 31}, AddMonths(a, -1))
}

func TestCompareDatesAndInRange(t *testing.T) {
	d1 := civil.Date{Year: 2024, Month: time.May, Day: 1}
	d2 := civil.Date{Year: 2024, Month: time.May, Day: 2}

	assert.Equal(t, -1, CompareDates(d1, d2))
	assert.Equal(t, 1, CompareDates(d2, d1))
	assert.Equal(t, 0, CompareDates(d1, d1))

	assert.True(t, InRange(d1, civil.Date{}, civil.Date{}))
	assert.True(t, InRange(d1, d1, d2))
	assert.False(t, InRange(d1, d2, civil.Date{}))
	assert.False(t, InRange(d2, civil.Date{}, d1))
}

func TestYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2024-01")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{Year: 2024, Month: time.January}, ym)
	assert.Equal(t, YearMonth{Year: 2023, Month: time.December}, ym.Prev())
	assert.Equal(t, "2024-01", ym.String())

	assert.True(t, ym.Contains(civil.Date{Year: 2024, Month: time.January, Day: 31}))
	assert.False(t, ym.Contains(civil.Date{Year: 2023, Month: time.January, Day: 31}))

	feb := YearMonth{Year: 2024, Month: time.February}
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 29}, feb.LastDay())
	assert.Equal(t, YearMonth{Year: 2024, Month: time.February}, YearMonthOf(feb.FirstDay()))

	_, err = ParseYearMonth("January")
	assert.Error(t, err)
}
