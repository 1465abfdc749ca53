package models

import (
	"fjacquet/spendtag/internal/pipelineerror"
)

// TopLevel returns the transactions that are not split children, in input order.
func TopLevel(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.IsChild() {
			out = append(out, tx)
		}
	}
	return out
}

// ChildrenIndex groups split children by parent ID, preserving input order.
func ChildrenIndex(txs []Transaction) map[string][]Transaction {
	idx := make(map[string][]Transaction)
	for _, tx := range txs {
		if tx.IsChild() {
			idx[tx.ParentID] = append(idx[tx.ParentID], tx)
		}
	}
	return idx
}

// LedgerEntries returns what totals should count: unsplit top-level transactions
// plus the children of split parents. Split parents themselves are left out so
// their amount is never counted twice. Children whose parent is missing or not
// marked split are skipped and reported.
func LedgerEntries(txs []Transaction) ([]Transaction, []*pipelineerror.MissingDataError) {
	parents := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if !tx.IsChild() {
			parents[tx.ID] = tx.IsSplit
		}
	}

	var (
		out     = make([]Transaction, 0, len(txs))
		orphans []*pipelineerror.MissingDataError
	)
	for _, tx := range txs {
		switch {
		case tx.IsChild():
			isSplit, ok := parents[tx.ParentID]
			if !ok || !isSplit {
				orphans = append(orphans, &pipelineerror.MissingDataError{
					Kind:      pipelineerror.MissingParent,
					ID:        tx.ID,
					Reference: tx.ParentID,
				})
				continue
			}
			out = append(out, tx)
		case tx.IsSplit:
			continue
		default:
			out = append(out, tx)
		}
	}
	return out, orphans
}

// FindByID returns the index of the transaction with id, or -1.
func FindByID(txs []Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}
