package ledger

import (
	"testing"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetBook_SetCreatesAndUpdates(t *testing.T) {
	b := NewBudgetBook(0)

	created, result, err := b.Set("Food", 500)
	require.NoError(t, err)
	assert.Equal(t, BudgetCreated, result)
	assert.Equal(t, model.Budget{Category: "Food", Limit: 500}, created)

	l := newTestLedger(0)
	_, _ = l.Add("Lunch", 80, model.KindExpense, "food")
	b.Reconcile(l)
	got, err := b.Get("FOOD")
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Spent)

	updated, result, err := b.Set("fOOd", 650)
	require.NoError(t, err)
	assert.Equal(t, BudgetUpdated, result)
	assert.Equal(t, "Food", updated.Category, "update keeps the original spelling")
	assert.Equal(t, 650.0, updated.Limit)
	assert.Zero(t, updated.Spent, "updating a budget resets tracked spend")
	assert.Equal(t, 1, b.Len())
}

func TestBudgetBook_KeyEquivalence(t *testing.T) {
	pairs := [][2]string{
		{"Food", "FOOD"},
		{"groceries", "Groceries"},
		{"Car Loan", "car loan"},
		{"Café", "CAFé"},
	}

	for _, pair := range pairs {
		t.Run(pair[0], func(t *testing.T) {
			b := NewBudgetBook(0)
			_, _, err := b.Set(pair[0], 100)
			require.NoError(t, err)

			got, err := b.Get(pair[1])
			require.NoError(t, err)
			assert.Equal(t, pair[0], got.Category)
			assert.True(t, b.Has(pair[1]))
		})
	}
}

func TestBudgetBook_SetValidation(t *testing.T) {
	b := NewBudgetBook(2)

	_, _, err := b.Set("Food", 0)
	assert.ErrorIs(t, err, common.ErrInvalidLimit)
	_, _, err = b.Set("Food", -10)
	assert.ErrorIs(t, err, common.ErrInvalidLimit)
	_, _, err = b.Set("Food", 0.004)
	assert.ErrorIs(t, err, common.ErrInvalidLimit)
	_, _, err = b.Set("", 10)
	assert.ErrorIs(t, err, common.ErrEmptyCategory)
	assert.Equal(t, 0, b.Len())

	_, _, err = b.Set("Food", 100)
	require.NoError(t, err)
	_, _, err = b.Set("Rent", 900)
	require.NoError(t, err)

	_, _, err = b.Set("Fun", 50)
	assert.ErrorIs(t, err, common.ErrCapacityExceeded)

	_, result, err := b.Set("rent", 950)
	require.NoError(t, err, "updates are allowed at capacity")
	assert.Equal(t, BudgetUpdated, result)
}

func TestBudgetBook_Delete(t *testing.T) {
	b := NewBudgetBook(0)
	_, _, _ = b.Set("Food", 100)
	_, _, _ = b.Set("Rent", 900)

	require.NoError(t, b.Delete("FOOD"))
	assert.False(t, b.Has("food"))
	assert.Equal(t, 1, b.Len())

	assert.ErrorIs(t, b.Delete("food"), common.ErrNotFound)
}

func TestBudgetBook_DeleteLeavesLedger(t *testing.T) {
	l := newTestLedger(0)
	_, _ = l.Add("Lunch", 50, model.KindExpense, "food")
	b := NewBudgetBook(0)
	_, _, _ = b.Set("Food", 100)

	require.NoError(t, b.Delete("Food"))
	assert.Equal(t, 1, l.Len())
}

func TestBudgetBook_ReconcileIdempotent(t *testing.T) {
	l := newTestLedger(0)
	_, _ = l.Add("Lunch", 50, model.KindExpense, "food")
	_, _ = l.Add("Paycheck", 2000, model.KindIncome, "food")
	_, _ = l.Add("Movie", 12, model.KindExpense, "Fun")

	b := NewBudgetBook(0)
	_, _, _ = b.Set("Food", 500)
	_, _, _ = b.Set("Fun", 10)
	_, _, _ = b.Set("Travel", 300)

	b.Reconcile(l)
	first := b.All()
	b.Reconcile(l)
	second := b.All()

	assert.Equal(t, first, second)
	assert.Equal(t, 50.0, second[0].Spent, "income must not count as spend")
	assert.Equal(t, 12.0, second[1].Spent)
	assert.Zero(t, second[2].Spent)
	assert.Equal(t, []model.Budget{second[1]}, b.Exceeded())
}

func TestBudgetBook_ReconcileAfterRemovingSoleContributor(t *testing.T) {
	l := newTestLedger(0)
	tx, _ := l.Add("Lunch", 50, model.KindExpense, "food")
	b := NewBudgetBook(0)
	_, _, _ = b.Set("Food", 500)

	b.Reconcile(l)
	got, _ := b.Get("food")
	require.Equal(t, 50.0, got.Spent)

	require.NoError(t, l.Remove(tx.ID))
	b.Reconcile(l)

	got, _ = b.Get("food")
	assert.Zero(t, got.Spent)
}

func TestBudgetBook_FoodScenario(t *testing.T) {
	l := newTestLedger(0)
	b := NewBudgetBook(0)

	_, _, err := b.Set("Food", 500)
	require.NoError(t, err)

	_, err = l.Add("Lunch", 50, model.KindExpense, "food")
	require.NoError(t, err)
	b.Reconcile(l)

	budget, err := b.Get("Food")
	require.NoError(t, err)
	assert.Equal(t, 50.0, budget.Spent)
	exceeded, err := b.IsExceeded("Food")
	require.NoError(t, err)
	assert.False(t, exceeded)

	_, err = l.Add("Dinner", 475, model.KindExpense, "FOOD")
	require.NoError(t, err)
	b.Reconcile(l)

	budget, _ = b.Get("food")
	assert.Equal(t, 525.0, budget.Spent)
	exceeded, err = b.IsExceeded("food")
	require.NoError(t, err)
	assert.True(t, exceeded)

	_, err = b.IsExceeded("nothing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestBudgetBook_Restore(t *testing.T) {
	b := NewBudgetBook(0)

	require.NoError(t, b.Restore(model.Budget{Category: "Food", Limit: 100, Spent: 30}))
	assert.ErrorIs(t, b.Restore(model.Budget{Category: "FOOD", Limit: 100}), common.ErrDuplicateKey)
	assert.ErrorIs(t, b.Restore(model.Budget{Category: "Rent", Limit: 0}), common.ErrInvalidLimit)
	assert.ErrorIs(t, b.Restore(model.Budget{Category: "Rent", Limit: 5, Spent: -1}), common.ErrInvalidAmount)

	got, err := b.Get("food")
	require.NoError(t, err)
	assert.Equal(t, 30.0, got.Spent)
}
