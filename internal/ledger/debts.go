package ledger

import (
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// DebtUpdate carries the fields to change on an existing debt. Nil fields
// are left as they are.
type DebtUpdate struct {
	Principal       *float64
	MonthsRemaining *int
	InterestRate    *float64
	ExtraFees       *float64
}

// DebtBook holds at most one debt per normalized name.
type DebtBook struct {
	debts    []model.Debt
	capacity int
}

// NewDebtBook creates an empty debt book. A non-positive capacity selects
// the default.
func NewDebtBook(capacity int) *DebtBook {
	if capacity <= 0 {
		capacity = DefaultDebtCapacity
	}
	return &DebtBook{capacity: capacity}
}

// Installment is the flat monthly payment estimate for d.
func Installment(d model.Debt) float64 {
	return d.Installment()
}

// Add inserts a new debt with nothing paid yet.
func (b *DebtBook) Add(name string, principal float64, monthsRemaining int, interestRate, extraFees float64) (model.Debt, error) {
	debt := model.Debt{
		Name:            name,
		Principal:       principal,
		MonthsRemaining: monthsRemaining,
		InterestRate:    interestRate,
		ExtraFees:       extraFees,
	}
	if err := b.insert(debt); err != nil {
		return model.Debt{}, err
	}
	return debt, nil
}

// Restore inserts a persisted debt including its cached paid amount.
func (b *DebtBook) Restore(debt model.Debt) error {
	if !validNonNegative(debt.Paid) {
		return fmt.Errorf("%w: paid %v", common.ErrInvalidAmount, debt.Paid)
	}
	return b.insert(debt)
}

func (b *DebtBook) insert(debt model.Debt) error {
	key := debt.Key()
	if key.IsEmpty() {
		return common.ErrEmptyCategory
	}
	if err := validateDebtTerms(debt); err != nil {
		return err
	}
	if b.indexOf(key) >= 0 {
		return fmt.Errorf("debt %q: %w", debt.Name, common.ErrDuplicateKey)
	}
	if len(b.debts) >= b.capacity {
		return fmt.Errorf("%w: at most %d debts", common.ErrCapacityExceeded, b.capacity)
	}
	b.debts = append(b.debts, debt)
	return nil
}

// Update changes the supplied fields of the named debt. Every field is
// validated before any is applied.
func (b *DebtBook) Update(name string, update DebtUpdate) (model.Debt, error) {
	idx := b.indexOf(model.NormalizeKey(name))
	if idx < 0 {
		return model.Debt{}, fmt.Errorf("debt %q: %w", name, common.ErrNotFound)
	}

	updated := b.debts[idx]
	if update.Principal != nil {
		updated.Principal = *update.Principal
	}
	if update.MonthsRemaining != nil {
		updated.MonthsRemaining = *update.MonthsRemaining
	}
	if update.InterestRate != nil {
		updated.InterestRate = *update.InterestRate
	}
	if update.ExtraFees != nil {
		updated.ExtraFees = *update.ExtraFees
	}

	if err := validateDebtTerms(updated); err != nil {
		return model.Debt{}, err
	}

	b.debts[idx] = updated
	return updated, nil
}

// Delete removes the named debt.
func (b *DebtBook) Delete(name string) error {
	idx := b.indexOf(model.NormalizeKey(name))
	if idx < 0 {
		return fmt.Errorf("debt %q: %w", name, common.ErrNotFound)
	}
	b.debts = append(b.debts[:idx], b.debts[idx+1:]...)
	return nil
}

// Get returns the debt matching name case-insensitively.
func (b *DebtBook) Get(name string) (model.Debt, error) {
	idx := b.indexOf(model.NormalizeKey(name))
	if idx < 0 {
		return model.Debt{}, fmt.Errorf("debt %q: %w", name, common.ErrNotFound)
	}
	return b.debts[idx], nil
}

// ReconcilePaid recomputes every debt's Paid from expense transactions whose
// category matches the debt name.
func (b *DebtBook) ReconcilePaid(l *Ledger) {
	spend := l.SpendByKey()
	for i := range b.debts {
		b.debts[i].Paid = spend[b.debts[i].Key()]
	}
}

// RankedByInstallment returns every debt ordered by installment, highest
// first. Debts with equal installments keep insertion order.
func (b *DebtBook) RankedByInstallment() model.PriorityEntries {
	return model.NewPriorityEntries(b.debts)
}

// All returns a copy of the debts in insertion order.
func (b *DebtBook) All() []model.Debt {
	out := make([]model.Debt, len(b.debts))
	copy(out, b.debts)
	return out
}

// Len returns the number of debts.
func (b *DebtBook) Len() int {
	return len(b.debts)
}

// Capacity returns the maximum number of debts.
func (b *DebtBook) Capacity() int {
	return b.capacity
}

func (b *DebtBook) indexOf(key model.Key) int {
	for i, d := range b.debts {
		if d.Key() == key {
			return i
		}
	}
	return -1
}

func validateDebtTerms(d model.Debt) error {
	if !validPositive(d.Principal) {
		return fmt.Errorf("%w: got %v", common.ErrInvalidPrincipal, d.Principal)
	}
	if d.MonthsRemaining <= 0 {
		return fmt.Errorf("%w: got %d", common.ErrInvalidTerm, d.MonthsRemaining)
	}
	if !validNonNegative(d.InterestRate) {
		return fmt.Errorf("%w: got %v", common.ErrInvalidRate, d.InterestRate)
	}
	if !validNonNegative(d.ExtraFees) {
		return fmt.Errorf("%w: got %v", common.ErrInvalidFees, d.ExtraFees)
	}
	return nil
}
