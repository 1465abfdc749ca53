// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"

	"fjacquet/spendtag/internal/container"
	"fjacquet/spendtag/internal/models"
)

// Snapshot is everything a command reads before it mutates anything.
type Snapshot struct {
	Transactions []models.Transaction
	Rules        []models.Rule
	Aliases      []models.MerchantAlias
}

// LoadSnapshot reads transactions, rules and aliases from the container's stores.
func LoadSnapshot(ctx context.Context, c *container.Container) (Snapshot, error) {
	txs, err := c.GetTransactionStore().Load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("error loading transactions: %w", err)
	}
	rules, err := c.GetRuleStore().LoadRules(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("error loading rules: %w", err)
	}
	aliases, err := c.GetAliasStore().LoadAliases(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("error loading aliases: %w", err)
	}
	return Snapshot{Transactions: txs, Rules: rules, Aliases: aliases}, nil
}

// SaveTransactions replaces the stored snapshot with txs.
func SaveTransactions(ctx context.Context, c *container.Container, txs []models.Transaction) error {
	if err := c.GetTransactionStore().Save(ctx, txs); err != nil {
		return fmt.Errorf("error saving transactions: %w", err)
	}
	return nil
}

// Select returns the transactions of txs whose IDs appear in ids, in txs order.
func Select(txs []models.Transaction, ids []string) []models.Transaction {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]models.Transaction, 0, len(ids))
	for _, tx := range txs {
		if want[tx.ID] {
			out = append(out, tx)
		}
	}
	return out
}
