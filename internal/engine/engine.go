// Package engine coordinates the ledger stores. It keeps the derived spend
// and paid fields consistent by reconciling after every mutation, and it
// moves the stores to and from persistent storage.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// Reconcile recomputes budget spend and debt payments from the ledger. The
// two passes read the same ledger and write disjoint fields, so their order
// does not matter; both complete before Reconcile returns.
func Reconcile(l *ledger.Ledger, budgets *ledger.BudgetBook, debts *ledger.DebtBook) {
	budgets.Reconcile(l)
	debts.ReconcilePaid(l)
}

// Engine owns the three stores of a single run.
type Engine struct {
	ledger  *ledger.Ledger
	budgets *ledger.BudgetBook
	debts   *ledger.DebtBook
}

// New creates an engine with empty stores bounded by limits.
func New(limits Limits, opts ...ledger.Option) *Engine {
	return &Engine{
		ledger:  ledger.New(limits.Transactions, opts...),
		budgets: ledger.NewBudgetBook(limits.Budgets),
		debts:   ledger.NewDebtBook(limits.Debts),
	}
}

// Ledger exposes the transaction store for read-only queries.
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Budgets exposes the budget store for read-only queries.
func (e *Engine) Budgets() *ledger.BudgetBook { return e.budgets }

// Debts exposes the debt store for read-only queries.
func (e *Engine) Debts() *ledger.DebtBook { return e.debts }

// Reconcile brings every derived field up to date with the ledger.
func (e *Engine) Reconcile() {
	Reconcile(e.ledger, e.budgets, e.debts)
}

// AddTransaction records a transaction and reconciles. The result carries
// the budget and debt the transaction counted toward, if any.
func (e *Engine) AddTransaction(description string, amount float64, kind model.Kind, category string) (TransactionResult, error) {
	tx, err := e.ledger.Add(description, amount, kind, category)
	if err != nil {
		return TransactionResult{}, err
	}
	return e.recorded(tx), nil
}

// ImportTransaction records a transaction from an external statement,
// keeping its timestamp. Validation and capacity rules match AddTransaction.
func (e *Engine) ImportTransaction(tx model.Transaction) (TransactionResult, error) {
	tx, err := e.ledger.Restore(tx)
	if err != nil {
		return TransactionResult{}, err
	}
	return e.recorded(tx), nil
}

func (e *Engine) recorded(tx model.Transaction) TransactionResult {
	e.Reconcile()

	result := TransactionResult{Transaction: tx}
	if budget, err := e.budgets.Get(tx.Category); err == nil {
		result.Budget = &budget
	}
	if debt, err := e.debts.Get(tx.Category); err == nil {
		result.Debt = &debt
	}

	slog.Debug("Recorded transaction",
		"kind", tx.Kind,
		"amount", tx.Amount,
		"category", tx.Category,
		"over_budget", result.BudgetExceeded())

	return result
}

// RemoveTransaction deletes a transaction by id and reconciles.
func (e *Engine) RemoveTransaction(id string) error {
	if err := e.ledger.Remove(id); err != nil {
		return err
	}
	e.Reconcile()
	return nil
}

// RemoveTransactionAt deletes the transaction at a 1-based position of the
// newest-first listing and returns it.
func (e *Engine) RemoveTransactionAt(position int) (model.Transaction, error) {
	tx, err := e.ledger.At(position)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := e.RemoveTransaction(tx.ID); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// SetBudget creates or updates a budget and reconciles, so the returned
// budget already reflects spend recorded in the ledger.
func (e *Engine) SetBudget(category string, limit float64) (model.Budget, ledger.SetResult, error) {
	_, result, err := e.budgets.Set(category, limit)
	if err != nil {
		return model.Budget{}, result, err
	}
	e.Reconcile()

	budget, err := e.budgets.Get(category)
	if err != nil {
		return model.Budget{}, result, err
	}
	return budget, result, nil
}

// DeleteBudget removes a budget and reconciles. Transactions are kept.
func (e *Engine) DeleteBudget(category string) error {
	if err := e.budgets.Delete(category); err != nil {
		return err
	}
	e.Reconcile()
	return nil
}

// AddDebt inserts a debt and reconciles its paid amount against the ledger.
func (e *Engine) AddDebt(name string, principal float64, monthsRemaining int, interestRate, extraFees float64) (model.Debt, error) {
	if _, err := e.debts.Add(name, principal, monthsRemaining, interestRate, extraFees); err != nil {
		return model.Debt{}, err
	}
	e.Reconcile()
	return e.debts.Get(name)
}

// UpdateDebt changes the supplied fields of a debt and reconciles.
func (e *Engine) UpdateDebt(name string, update ledger.DebtUpdate) (model.Debt, error) {
	if _, err := e.debts.Update(name, update); err != nil {
		return model.Debt{}, err
	}
	e.Reconcile()
	return e.debts.Get(name)
}

// DeleteDebt removes a debt and reconciles.
func (e *Engine) DeleteDebt(name string) error {
	if err := e.debts.Delete(name); err != nil {
		return err
	}
	e.Reconcile()
	return nil
}

// Ranking reconciles and returns debts ordered by installment, highest first.
func (e *Engine) Ranking() model.PriorityEntries {
	e.Reconcile()
	return e.debts.RankedByInstallment()
}

// Dashboard reconciles and returns a read-only view of every store.
func (e *Engine) Dashboard() Dashboard {
	e.Reconcile()

	budgets := e.budgets.All()
	statuses := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		statuses[i] = BudgetStatus{Budget: b, Exceeded: b.Exceeded()}
	}

	income := e.ledger.TotalByKind(model.KindIncome)
	expense := e.ledger.TotalByKind(model.KindExpense)

	return Dashboard{
		Transactions: e.ledger.SortedByTimestampDescending(),
		Budgets:      statuses,
		Debts:        e.debts.All(),
		Ranking:      e.debts.RankedByInstallment(),
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income - expense,
	}
}

// Load fills the stores from storage and reconciles. Records that fail
// validation or do not fit are skipped with a warning. A store that cannot be
// read is reported and left empty while the others still load.
func (e *Engine) Load(ctx context.Context, store service.Storage) error {
	var errs []error

	transactions, err := store.LoadTransactions(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to load transactions: %w", err))
	}
	for _, tx := range transactions {
		if _, err := e.ledger.Restore(tx); err != nil {
			logSkipped("transaction", tx.Description, err)
		}
	}

	budgets, err := store.LoadBudgets(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to load budgets: %w", err))
	}
	for _, b := range budgets {
		if err := e.budgets.Restore(b); err != nil {
			logSkipped("budget", b.Category, err)
		}
	}

	debts, err := store.LoadDebts(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to load debts: %w", err))
	}
	for _, d := range debts {
		if err := e.debts.Restore(d); err != nil {
			logSkipped("debt", d.Name, err)
		}
	}

	e.Reconcile()

	common.LogDebug("Loaded ledger", common.Fields{
		"transactions": e.ledger.Len(),
		"budgets":      e.budgets.Len(),
		"debts":        e.debts.Len(),
	})

	return errors.Join(errs...)
}

// Save reconciles and writes every store. A failed store does not stop the
// others from being saved; all failures are returned together.
func (e *Engine) Save(ctx context.Context, store service.Storage) error {
	e.Reconcile()

	var errs []error
	if err := store.SaveTransactions(ctx, e.ledger.All()); err != nil {
		errs = append(errs, fmt.Errorf("failed to save transactions: %w", err))
	}
	if err := store.SaveBudgets(ctx, e.budgets.All()); err != nil {
		errs = append(errs, fmt.Errorf("failed to save budgets: %w", err))
	}
	if err := store.SaveDebts(ctx, e.debts.All()); err != nil {
		errs = append(errs, fmt.Errorf("failed to save debts: %w", err))
	}

	for _, err := range errs {
		common.LogError(err, "Store not saved", nil)
	}

	return errors.Join(errs...)
}

func logSkipped(kind, name string, err error) {
	if errors.Is(err, common.ErrCapacityExceeded) {
		name += " (store full)"
	}
	slog.Warn("Skipping stored record",
		"record", kind,
		"name", name,
		"error", err)
}
