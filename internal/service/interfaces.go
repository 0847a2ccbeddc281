// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"

	"github.com/Veraticus/tally/internal/model"
)

// Storage defines the contract for our persistence layer. Each record type
// is loaded and saved independently so that a failure on one store does not
// prevent the others from being persisted. Saves fully replace the stored
// records with the given slice.
type Storage interface {
	// Transaction records
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error

	// Budget records
	LoadBudgets(ctx context.Context) ([]model.Budget, error)
	SaveBudgets(ctx context.Context, budgets []model.Budget) error

	// Debt records
	LoadDebts(ctx context.Context) ([]model.Debt, error)
	SaveDebts(ctx context.Context, debts []model.Debt) error

	Close() error
}

// StatementParser turns a bank statement file into ledger transactions.
type StatementParser interface {
	ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error)
}
