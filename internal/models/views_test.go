package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/spendtag/internal/pipelineerror"
)

func TestLedgerEntries(t *testing.T) {
	txs := []Transaction{
		{ID: "plain", Amount: decimal.NewFromInt(-10)},
		{ID: "parent", Amount: decimal.NewFromInt(-200), IsSplit: true},
		{ID: "child-1", ParentID: "parent", Amount: decimal.NewFromInt(-120)},
		{ID: "child-2", ParentID: "parent", Amount: decimal.NewFromInt(-80)},
		{ID: "orphan", ParentID: "gone", Amount: decimal.NewFromInt(-5)},
		{ID: "stale", ParentID: "plain", Amount: decimal.NewFromInt(-1)},
	}

	entries, orphans := LedgerEntries(txs)

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"plain", "child-1", "child-2"}, ids)

	require.Len(t, orphans, 2)
	assert.Equal(t, "orphan", orphans[0].ID)
	assert.Equal(t, pipelineerror.MissingParent, orphans[0].Kind)
	assert.Equal(t, "gone", orphans[0].Reference)
	assert.Equal(t, "stale", orphans[1].ID)
}

func TestTopLevelAndChildrenIndex(t *testing.T) {
	txs := []Transaction{
		{ID: "a"},
		{ID: "b", IsSplit: true},
		{ID: "b1", ParentID: "b"},
		{ID: "b2", ParentID: "b"},
	}

	top := TopLevel(txs)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].ID)
	assert.Equal(t, "b", top[1].ID)

	idx := ChildrenIndex(txs)
	require.Len(t, idx["b"], 2)
	assert.Equal(t, "b1", idx["b"][0].ID)
	assert.Empty(t, idx["a"])

	assert.Equal(t, 2, FindByID(txs, "b1"))
	assert.Equal(t, -1, FindByID(txs, "zzz"))
}
