// Package testutil provides shared fixtures for tests that need a real
// storage backend.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/storage"
)

// TestDB represents a migrated in-memory SQLite database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	Transactions   []model.Transaction
	Budgets        []model.Budget
	Debts          []model.Debt
	SkipMigrations bool
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database seeded with the given records.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if len(opts.Transactions) > 0 {
		if err := store.SaveTransactions(ctx, opts.Transactions); err != nil {
			t.Fatalf("failed to seed transactions: %v", err)
		}
	}
	if len(opts.Budgets) > 0 {
		if err := store.SaveBudgets(ctx, opts.Budgets); err != nil {
			t.Fatalf("failed to seed budgets: %v", err)
		}
	}
	if len(opts.Debts) > 0 {
		if err := store.SaveDebts(ctx, opts.Debts); err != nil {
			t.Fatalf("failed to seed debts: %v", err)
		}
	}

	return &TestDB{Storage: store, t: t}
}

// SetupFlatFiles creates flat-file storage in a temporary directory.
func SetupFlatFiles(t *testing.T) *storage.FlatFileStorage {
	t.Helper()

	store, err := storage.NewFlatFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create flat-file storage: %v", err)
	}
	return store
}

// MustLoadTransactions returns the stored transactions or fails the test.
func (db *TestDB) MustLoadTransactions() []model.Transaction {
	db.t.Helper()
	txns, err := db.Storage.LoadTransactions(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load transactions: %v", err)
	}
	return txns
}

// FixedTime is the reference instant used by fixtures.
var FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)

// Expense builds an expense transaction stamped offset after FixedTime.
func Expense(desc, category string, amount float64, offset time.Duration) model.Transaction {
	return model.Transaction{
		ID:          uuid.NewString(),
		Description: desc,
		Category:    category,
		Kind:        model.KindExpense,
		Amount:      amount,
		Timestamp:   FixedTime.Add(offset),
	}
}

// Income builds an income transaction stamped offset after FixedTime.
func Income(desc, category string, amount float64, offset time.Duration) model.Transaction {
	return model.Transaction{
		ID:          uuid.NewString(),
		Description: desc,
		Category:    category,
		Kind:        model.KindIncome,
		Amount:      amount,
		Timestamp:   FixedTime.Add(offset),
	}
}
