package engine

import "github.com/Veraticus/tally/internal/model"

// BudgetStatus is a budget as shown to the user, with its exceeded flag.
type BudgetStatus struct {
	model.Budget
	Exceeded bool
}

// Dashboard is a read-only view of the reconciled ledger state.
type Dashboard struct {
	Transactions []model.Transaction // newest first
	Budgets      []BudgetStatus
	Debts        []model.Debt
	Ranking      model.PriorityEntries
	TotalIncome  float64
	TotalExpense float64
	Net          float64
}

// TransactionResult reports the effect of recording a transaction on the
// budget and debt matching its category, if any.
type TransactionResult struct {
	Budget      *model.Budget
	Debt        *model.Debt
	Transaction model.Transaction
}

// BudgetExceeded reports whether the transaction's category is over budget.
func (r TransactionResult) BudgetExceeded() bool {
	return r.Budget != nil && r.Budget.Exceeded()
}

// Limits caps the size of each store.
type Limits struct {
	Transactions int
	Budgets      int
	Debts        int
}
