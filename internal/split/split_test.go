package split

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("child-%d", n)
	})
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func hotelStay() models.Transaction {
	return models.Transaction{
		ID:          "hotel",
		Date:        civil.Date{Year: 2024, Month: time.May, Day: 12},
		Description: "ROVE DOWNTOWN DUBAI",
		Merchant:    "Rove Hotels",
		Amount:      decimal.RequireFromString("-200"),
		Currency:    "AED",
		Category:    models.CategoryTravel,
		SourceType:  models.SourceCSV,
		SourceFile:  "may.csv",
		Note:        "team offsite",
	}
}

func TestSplitSixtyForty(t *testing.T) {
	logger := logging.NewMockLogger()
	m := NewManager(0, logger, sequentialIDs())
	txs := []models.Transaction{hotelStay(), {ID: "other", Amount: decimal.NewFromInt(-5)}}

	out, children, err := m.Split(txs, "hotel", []Allocation{
		{Percentage: pct("60"), Tag: models.TagReimbursable},
		{Percentage: pct("40"), Tag: models.TagPersonal, Category: models.CategoryEntertainment},
	})
	require.NoError(t, err)
	require.Len(t, children, 2)
	require.Len(t, out, 4)

	work, personal := children[0], children[1]
	assert.Equal(t, "child-1", work.ID)
	assert.True(t, work.Amount.Equal(decimal.NewFromInt(-120)))
	assert.Equal(t, models.TagReimbursable, work.Tag)
	assert.Equal(t, models.StatusDraft, work.Status)
	assert.Equal(t, models.CategoryTravel, work.Category)
	assert.Equal(t, "hotel", work.ParentID)
	assert.True(t, work.SplitPercentage.Equal(pct("60")))
	assert.Equal(t, "Rove Hotels", work.Merchant)
	assert.Equal(t, "team offsite", work.Note)
	assert.Equal(t, "may.csv", work.SourceFile)
	assert.False(t, work.AutoTagged)

	assert.True(t, personal.Amount.Equal(decimal.NewFromInt(-80)))
	assert.Equal(t, models.TagPersonal, personal.Tag)
	assert.Equal(t, models.StatusNone, personal.Status)
	assert.Equal(t, models.CategoryEntertainment, personal.Category)

	assert.True(t, out[0].IsSplit)
	assert.True(t, out[0].Amount.Equal(decimal.NewFromInt(-200)), "parent keeps its raw amount")
	assert.False(t, txs[0].IsSplit, "input must stay untouched")
	assert.True(t, errors.Is(out[0].SetTag(models.TagPersonal), pipelineerror.ErrSplitParentLocked))

	assert.Empty(t, m.Verify(out))
	assert.True(t, logger.HasEntry("INFO", "Transaction split"))
}

func TestSplitSumInvariantWithRounding(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		pcts   []string
	}{
		{"Thirds", "-100", []string{"33.33", "33.33", "33.34"}},
		{"OddCents", "-0.05", []string{"50", "50"}},
		{"Credit", "1234.57", []string{"12.5", "37.5", "50"}},
		{"WithinEpsilon", "-10", []string{"33.333", "33.333", "33.333"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := hotelStay()
			parent.Amount = decimal.RequireFromString(tt.amount)
			allocs := make([]Allocation, len(tt.pcts))
			for i, p := range tt.pcts {
				allocs[i] = Allocation{Percentage: pct(p), Tag: models.TagPersonal}
			}

			_, children, err := NewManager(0, nil, sequentialIDs()).Split([]models.Transaction{parent}, parent.ID, allocs)
			require.NoError(t, err)

			sum := decimal.Zero
			for _, c := range children {
				sum = sum.Add(c.Amount)
				if !c.Amount.IsZero() {
					assert.Equal(t, parent.Amount.Sign(), c.Amount.Sign(), "sign preserved")
				}
			}
			assert.True(t, sum.Equal(parent.Amount), "children sum %s, parent %s", sum, parent.Amount)
		})
	}
}

func TestSplitPreconditions(t *testing.T) {
	split := hotelStay()
	split.ID = "already"
	split.IsSplit = true
	child := models.Transaction{ID: "kid", ParentID: "already", SplitPercentage: ptr(pct("100"))}
	withKids := models.Transaction{ID: "has-kids", Amount: decimal.NewFromInt(-10)}
	stray := models.Transaction{ID: "stray", ParentID: "has-kids"}
	txs := []models.Transaction{hotelStay(), split, child, withKids, stray}

	valid := []Allocation{{Percentage: pct("50"), Tag: models.TagPersonal}, {Percentage: pct("50"), Tag: models.TagIgnore}}

	tests := []struct {
		name     string
		id       string
		allocs   []Allocation
		sentinel error
	}{
		{"Missing", "nope", valid, pipelineerror.ErrNotFound},
		{"Child", "kid", valid, pipelineerror.ErrSplitChild},
		{"AlreadySplit", "already", valid, pipelineerror.ErrAlreadySplit},
		{"HasChildren", "has-kids", valid, pipelineerror.ErrAlreadySplit},
		{"SingleAllocation", "hotel", []Allocation{{Percentage: pct("100"), Tag: models.TagPersonal}}, pipelineerror.ErrInvalidSplit},
		{"ZeroPercentage", "hotel", []Allocation{{Percentage: pct("0"), Tag: models.TagPersonal}, {Percentage: pct("100"), Tag: models.TagPersonal}}, pipelineerror.ErrInvalidSplit},
		{"NegativePercentage", "hotel", []Allocation{{Percentage: pct("-10"), Tag: models.TagPersonal}, {Percentage: pct("110"), Tag: models.TagPersonal}}, pipelineerror.ErrInvalidSplit},
		{"SumTooLow", "hotel", []Allocation{{Percentage: pct("60"), Tag: models.TagPersonal}, {Percentage: pct("39"), Tag: models.TagPersonal}}, pipelineerror.ErrInvalidSplit},
		{"BadTag", "hotel", []Allocation{{Percentage: pct("60"), Tag: "work"}, {Percentage: pct("40"), Tag: models.TagPersonal}}, pipelineerror.ErrInvalidSplit},
	}

	m := NewManager(DefaultEpsilon, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, children, err := m.Split(txs, tt.id, tt.allocs)
			require.Error(t, err)
			assert.True(t, pipelineerror.IsValidation(err))
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Nil(t, out)
			assert.Nil(t, children)
		})
	}
	assert.False(t, txs[0].IsSplit)
}

func TestUnsplitRestoresParent(t *testing.T) {
	m := NewManager(0, nil, sequentialIDs())
	orig := []models.Transaction{hotelStay()}
	splitOut, _, err := m.Split(orig, "hotel", []Allocation{
		{Percentage: pct("60"), Tag: models.TagReimbursable},
		{Percentage: pct("40"), Tag: models.TagPersonal},
	})
	require.NoError(t, err)

	restored, err := m.Unsplit(splitOut, "hotel")
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, orig[0], restored[0])
	assert.True(t, splitOut[0].IsSplit, "input must stay untouched")

	retag := restored[0]
	assert.NoError(t, retag.SetTag(models.TagPersonal))

	_, err = m.Unsplit(restored, "hotel")
	assert.True(t, errors.Is(err, pipelineerror.ErrNotSplit))
	_, err = m.Unsplit(restored, "missing")
	assert.True(t, errors.Is(err, pipelineerror.ErrNotFound))
}

func TestVerify(t *testing.T) {
	txs := []models.Transaction{
		{ID: "bad-pct", IsSplit: true, Amount: decimal.NewFromInt(-100)},
		{ID: "a", ParentID: "bad-pct", Amount: decimal.NewFromInt(-50), SplitPercentage: ptr(pct("50"))},
		{ID: "b", ParentID: "bad-pct", Amount: decimal.NewFromInt(-50), SplitPercentage: ptr(pct("40"))},
		{ID: "bad-amt", IsSplit: true, Amount: decimal.NewFromInt(-100)},
		{ID: "c", ParentID: "bad-amt", Amount: decimal.NewFromInt(-60), SplitPercentage: ptr(pct("60"))},
		{ID: "d", ParentID: "bad-amt", Amount: decimal.NewFromInt(-30), SplitPercentage: ptr(pct("40"))},
		{ID: "empty", IsSplit: true, Amount: decimal.NewFromInt(-1)},
		{ID: "orphan", ParentID: "gone"},
	}

	problems := NewManager(0, nil).Verify(txs)
	require.Len(t, problems, 4)

	var ve *pipelineerror.ValidationError
	require.True(t, errors.As(problems[0], &ve))
	assert.Equal(t, "bad-pct", ve.ID)
	require.True(t, errors.As(problems[1], &ve))
	assert.Equal(t, "bad-amt", ve.ID)
	require.True(t, errors.As(problems[2], &ve))
	assert.Equal(t, "empty", ve.ID)

	var md *pipelineerror.MissingDataError
	require.True(t, errors.As(problems[3], &md))
	assert.Equal(t, "orphan", md.ID)
	assert.Equal(t, "gone", md.Reference)
}

func TestParseAllocation(t *testing.T) {
	a, err := ParseAllocation("60:reimbursable:travel")
	require.NoError(t, err)
	assert.True(t, a.Percentage.Equal(pct("60")))
	assert.Equal(t, models.TagReimbursable, a.Tag)
	assert.Equal(t, models.CategoryTravel, a.Category)

	a, err = ParseAllocation(" 40 : personal")
	require.NoError(t, err)
	assert.Equal(t, models.TagPersonal, a.Tag)
	assert.Equal(t, models.CategoryNone, a.Category)

	for _, bad := range []string{"60", "x:personal", "60:work", "60:personal:gadgets"} {
		_, err := ParseAllocation(bad)
		assert.Error(t, err, bad)
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
