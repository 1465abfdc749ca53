// Package split divides one transaction into percentage-based children and
// reverses that division.
//
// A split parent keeps its raw amount for reference but stops counting in
// totals and can no longer be tagged; its children carry the amounts instead.
package split

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fjacquet/spendtag/internal/logging"
	"fjacquet/spendtag/internal/models"
	"fjacquet/spendtag/internal/pipelineerror"
)

// DefaultEpsilon is the accepted deviation of the percentage sum from 100.
const DefaultEpsilon = 0.01

var hundred = decimal.NewFromInt(100)

// Allocation is one child's share of the parent.
type Allocation struct {
	Percentage decimal.Decimal
	Tag        models.Tag
	Category   models.Category // optional; the parent's category when empty
	Note       string          // optional; the parent's note when empty
}

// Manager performs splits.
type Manager struct {
	epsilon decimal.Decimal
	newID   func() string
	logger  logging.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

// WithIDGenerator replaces the UUID child-ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager creates a manager. A non-positive epsilon selects DefaultEpsilon.
func NewManager(epsilon float64, logger logging.Logger, opts ...Option) *Manager {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	m := &Manager{
		epsilon: decimal.NewFromFloat(epsilon),
		newID:   uuid.NewString,
		logger:  logging.OrDiscard(logger),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Split divides the transaction id into one child per allocation. It returns the
// full updated list (parent marked split, children appended) and the new
// children. Every precondition is checked before anything is changed.
func (m *Manager) Split(txs []models.Transaction, id string, allocations []Allocation) ([]models.Transaction, []models.Transaction, error) {
	idx := models.FindByID(txs, id)
	if idx < 0 {
		return nil, nil, invalid(id, pipelineerror.ErrNotFound, "transaction not found")
	}
	parent := txs[idx]
	if err := m.checkSplittable(txs, parent); err != nil {
		return nil, nil, err
	}
	if err := m.checkAllocations(id, allocations); err != nil {
		return nil, nil, err
	}

	children := m.buildChildren(parent, allocations)

	out := models.CloneAll(txs)
	out[idx].IsSplit = true
	out = append(out, children...)

	m.logger.Info("Transaction split",
		logging.Field{Key: logging.FieldTransactionID, Value: id},
		logging.Field{Key: logging.FieldCount, Value: len(children)})
	return out, children, nil
}

// Unsplit removes every child of parentID and makes the parent a regular,
// taggable transaction again.
func (m *Manager) Unsplit(txs []models.Transaction, parentID string) ([]models.Transaction, error) {
	idx := models.FindByID(txs, parentID)
	if idx < 0 {
		return nil, invalid(parentID, pipelineerror.ErrNotFound, "transaction not found")
	}
	if !txs[idx].IsSplit {
		return nil, invalid(parentID, pipelineerror.ErrNotSplit, "transaction is not split")
	}

	out := make([]models.Transaction, 0, len(txs))
	removed := 0
	for _, tx := range txs {
		if tx.ParentID == parentID {
			removed++
			continue
		}
		c := tx.Clone()
		if c.ID == parentID {
			c.IsSplit = false
		}
		out = append(out, c)
	}

	m.logger.Info("Transaction unsplit",
		logging.Field{Key: logging.FieldTransactionID, Value: parentID},
		logging.Field{Key: logging.FieldCount, Value: removed})
	return out, nil
}

func (m *Manager) checkSplittable(txs []models.Transaction, parent models.Transaction) error {
	switch {
	case parent.IsChild():
		return invalid(parent.ID, pipelineerror.ErrSplitChild, "cannot split a split child")
	case parent.IsSplit:
		return invalid(parent.ID, pipelineerror.ErrAlreadySplit, "transaction is already split")
	}
	for _, tx := range txs {
		if tx.ParentID == parent.ID {
			return invalid(parent.ID, pipelineerror.ErrAlreadySplit, "transaction already has children")
		}
	}
	return nil
}

func (m *Manager) checkAllocations(id string, allocations []Allocation) error {
	if len(allocations) < 2 {
		return invalid(id, pipelineerror.ErrInvalidSplit, "at least two allocations are required, got %d", len(allocations))
	}
	sum := decimal.Zero
	for i, a := range allocations {
		if !a.Percentage.IsPositive() {
			return invalid(id, pipelineerror.ErrInvalidSplit, "allocation %d: percentage must be positive, got %s", i+1, a.Percentage)
		}
		if !a.Tag.IsValid() {
			return invalid(id, pipelineerror.ErrInvalidSplit, "allocation %d: unknown tag %q", i+1, a.Tag)
		}
		if !a.Category.IsValid() {
			return invalid(id, pipelineerror.ErrInvalidSplit, "allocation %d: unknown category %q", i+1, a.Category)
		}
		sum = sum.Add(a.Percentage)
	}
	if sum.Sub(hundred).Abs().GreaterThan(m.epsilon) {
		return invalid(id, pipelineerror.ErrInvalidSplit, "percentages sum to %s, want 100", sum)
	}
	return nil
}

// buildChildren rounds each share to cents and lets the last child absorb the
// remainder so the children always add up to the parent exactly.
func (m *Manager) buildChildren(parent models.Transaction, allocations []Allocation) []models.Transaction {
	children := make([]models.Transaction, 0, len(allocations))
	allocated := decimal.Zero

	for i, a := range allocations {
		amount := models.RoundAmount(parent.Amount.Mul(a.Percentage).Div(hundred))
		if i == len(allocations)-1 {
			amount = parent.Amount.Sub(allocated)
		}
		allocated = allocated.Add(amount)

		pct := a.Percentage
		child := models.Transaction{
			ID:              m.newID(),
			Date:            parent.Date,
			Description:     parent.Description,
			Merchant:        parent.Merchant,
			Amount:          amount,
			Currency:        parent.Currency,
			Category:        parent.Category,
			ParentID:        parent.ID,
			SplitPercentage: &pct,
			SourceType:      parent.SourceType,
			SourceFile:      parent.SourceFile,
			Note:            parent.Note,
		}
		if a.Category != models.CategoryNone {
			child.Category = a.Category
		}
		if a.Note != "" {
			child.Note = a.Note
		}
		// Tag and status come straight from the allocation; the status rule
		// cannot fail on a fresh child.
		_ = child.ConfirmTag(a.Tag)
		children = append(children, child)
	}
	return children
}

// Verify checks every split parent: children percentages must sum to 100
// within epsilon and children amounts must sum to the parent amount. Orphan
// children are reported too. The list is not modified.
func (m *Manager) Verify(txs []models.Transaction) []error {
	var problems []error
	byParent := models.ChildrenIndex(txs)

	for _, tx := range txs {
		if tx.IsChild() {
			continue
		}
		children := byParent[tx.ID]
		delete(byParent, tx.ID)

		if !tx.IsSplit {
			if len(children) > 0 {
				problems = append(problems, invalid(tx.ID, pipelineerror.ErrNotSplit, "%d children but parent is not marked split", len(children)))
			}
			continue
		}
		if len(children) == 0 {
			problems = append(problems, invalid(tx.ID, pipelineerror.ErrInvalidSplit, "split parent has no children"))
			continue
		}

		pctSum, amtSum := decimal.Zero, decimal.Zero
		for _, c := range children {
			if c.SplitPercentage != nil {
				pctSum = pctSum.Add(*c.SplitPercentage)
			}
			amtSum = amtSum.Add(c.Amount)
		}
		if pctSum.Sub(hundred).Abs().GreaterThan(m.epsilon) {
			problems = append(problems, invalid(tx.ID, pipelineerror.ErrInvalidSplit, "children percentages sum to %s", pctSum))
		}
		if !amtSum.Equal(tx.Amount) {
			problems = append(problems, invalid(tx.ID, pipelineerror.ErrInvalidSplit, "children amounts sum to %s, parent is %s", amtSum, tx.Amount))
		}
	}

	orphanParents := make([]string, 0, len(byParent))
	for parentID := range byParent {
		orphanParents = append(orphanParents, parentID)
	}
	sort.Strings(orphanParents)
	for _, parentID := range orphanParents {
		for _, c := range byParent[parentID] {
			problems = append(problems, &pipelineerror.MissingDataError{
				Kind:      pipelineerror.MissingParent,
				ID:        c.ID,
				Reference: parentID,
			})
		}
	}
	return problems
}

func invalid(id string, sentinel error, format string, args ...interface{}) error {
	return pipelineerror.NewValidationError("split", id, sentinel, format, args...)
}

// ParseAllocation reads "percentage:tag[:category]", e.g. "60:reimbursable:travel".
func ParseAllocation(s string) (Allocation, error) {
	var pctStr, tagStr, catStr string
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	switch len(parts) {
	case 3:
		catStr = parts[2]
		fallthrough
	case 2:
		pctStr, tagStr = strings.TrimSpace(parts[0]), parts[1]
	default:
		return Allocation{}, fmt.Errorf("allocation %q must read percentage:tag[:category]", s)
	}

	pct, err := decimal.NewFromString(pctStr)
	if err != nil {
		return Allocation{}, fmt.Errorf("allocation %q: invalid percentage: %w", s, err)
	}
	tag, err := models.ParseTag(tagStr)
	if err != nil {
		return Allocation{}, fmt.Errorf("allocation %q: %w", s, err)
	}
	cat, err := models.ParseCategory(catStr)
	if err != nil {
		return Allocation{}, fmt.Errorf("allocation %q: %w", s, err)
	}
	return Allocation{Percentage: pct, Tag: tag, Category: cat}, nil
}
