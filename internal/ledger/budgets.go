package ledger

import (
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// SetResult tells the caller whether BudgetBook.Set inserted or updated.
type SetResult int

const (
	// BudgetCreated means a new budget was inserted.
	BudgetCreated SetResult = iota
	// BudgetUpdated means an existing budget with the same key was replaced.
	BudgetUpdated
)

func (r SetResult) String() string {
	if r == BudgetUpdated {
		return "updated"
	}
	return "created"
}

// BudgetBook holds at most one budget per normalized category.
type BudgetBook struct {
	budgets  []model.Budget
	capacity int
}

// NewBudgetBook creates an empty budget book. A non-positive capacity
// selects the default.
func NewBudgetBook(capacity int) *BudgetBook {
	if capacity <= 0 {
		capacity = DefaultBudgetCapacity
	}
	return &BudgetBook{capacity: capacity}
}

// Set creates a budget for category, or updates the existing budget with the
// same normalized key. An update replaces the limit and resets Spent to zero;
// the next reconciliation recomputes it from the ledger.
func (b *BudgetBook) Set(category string, limit float64) (model.Budget, SetResult, error) {
	key := model.NormalizeKey(category)
	if key.IsEmpty() {
		return model.Budget{}, BudgetCreated, common.ErrEmptyCategory
	}
	if !validPositive(limit) {
		return model.Budget{}, BudgetCreated, fmt.Errorf("%w: got %v", common.ErrInvalidLimit, limit)
	}

	if idx := b.indexOf(key); idx >= 0 {
		b.budgets[idx].Limit = limit
		b.budgets[idx].Spent = 0
		return b.budgets[idx], BudgetUpdated, nil
	}

	if len(b.budgets) >= b.capacity {
		return model.Budget{}, BudgetCreated, fmt.Errorf("%w: at most %d budgets", common.ErrCapacityExceeded, b.capacity)
	}

	budget := model.Budget{Category: category, Limit: limit}
	b.budgets = append(b.budgets, budget)
	return budget, BudgetCreated, nil
}

// Restore inserts a persisted budget including its cached spend. A budget
// whose key is already present is rejected with ErrDuplicateKey.
func (b *BudgetBook) Restore(budget model.Budget) error {
	key := budget.Key()
	switch {
	case key.IsEmpty():
		return common.ErrEmptyCategory
	case !validPositive(budget.Limit):
		return fmt.Errorf("%w: got %v", common.ErrInvalidLimit, budget.Limit)
	case !validNonNegative(budget.Spent):
		return fmt.Errorf("%w: spent %v", common.ErrInvalidAmount, budget.Spent)
	case b.indexOf(key) >= 0:
		return fmt.Errorf("budget %q: %w", budget.Category, common.ErrDuplicateKey)
	case len(b.budgets) >= b.capacity:
		return fmt.Errorf("%w: at most %d budgets", common.ErrCapacityExceeded, b.capacity)
	}
	b.budgets = append(b.budgets, budget)
	return nil
}

// Get returns the budget matching category case-insensitively.
func (b *BudgetBook) Get(category string) (model.Budget, error) {
	idx := b.indexOf(model.NormalizeKey(category))
	if idx < 0 {
		return model.Budget{}, fmt.Errorf("budget %q: %w", category, common.ErrNotFound)
	}
	return b.budgets[idx], nil
}

// Has reports whether a budget exists for category.
func (b *BudgetBook) Has(category string) bool {
	return b.indexOf(model.NormalizeKey(category)) >= 0
}

// Delete removes the budget for category. The ledger is not touched.
func (b *BudgetBook) Delete(category string) error {
	idx := b.indexOf(model.NormalizeKey(category))
	if idx < 0 {
		return fmt.Errorf("budget %q: %w", category, common.ErrNotFound)
	}
	b.budgets = append(b.budgets[:idx], b.budgets[idx+1:]...)
	return nil
}

// Reconcile recomputes every budget's Spent from the expense transactions in
// l. Previous values are overwritten, so repeated calls are idempotent.
func (b *BudgetBook) Reconcile(l *Ledger) {
	spend := l.SpendByKey()
	for i := range b.budgets {
		b.budgets[i].Spent = spend[b.budgets[i].Key()]
	}
}

// IsExceeded reports whether the budget for category has spent more than its limit.
func (b *BudgetBook) IsExceeded(category string) (bool, error) {
	budget, err := b.Get(category)
	if err != nil {
		return false, err
	}
	return budget.Exceeded(), nil
}

// Exceeded returns every budget currently over its limit, in insertion order.
func (b *BudgetBook) Exceeded() []model.Budget {
	var out []model.Budget
	for _, budget := range b.budgets {
		if budget.Exceeded() {
			out = append(out, budget)
		}
	}
	return out
}

// All returns a copy of the budgets in insertion order.
func (b *BudgetBook) All() []model.Budget {
	out := make([]model.Budget, len(b.budgets))
	copy(out, b.budgets)
	return out
}

// Len returns the number of budgets.
func (b *BudgetBook) Len() int {
	return len(b.budgets)
}

// Capacity returns the maximum number of budgets.
func (b *BudgetBook) Capacity() int {
	return b.capacity
}

func (b *BudgetBook) indexOf(key model.Key) int {
	for i, budget := range b.budgets {
		if budget.Key() == key {
			return i
		}
	}
	return -1
}
