package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create test transactions.
func createTestTransactions(count int) []model.Transaction {
	txns := make([]model.Transaction, count)
	baseTime := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)

	for i := 0; i < count; i++ {
		kind := model.KindExpense
		if i%4 == 0 {
			kind = model.KindIncome
		}
		txns[i] = model.Transaction{
			ID:          makeTestID("txn", i+1),
			Timestamp:   baseTime.Add(time.Duration(i) * time.Hour),
			Description: makeTestName("Transaction", i+1),
			Category:    []string{"Food", "Rent", "Salary"}[i%3],
			Amount:      float64(i+1) * 10.50,
			Kind:        kind,
		}
	}
	return txns
}

func makeTestID(prefix string, num int) string {
	return prefix + "-" + string(rune('A'+num-1))
}

func makeTestName(prefix string, num int) string {
	return prefix + " #" + string(rune('0'+num))
}

func TestSQLiteStorage_TransactionsRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	want := createTestTransactions(5)
	if err := store.SaveTransactions(ctx, want); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}

	got, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("LoadTransactions() returned %d rows, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("row %d: ID = %q, want %q", i, got[i].ID, want[i].ID)
		}
		if got[i].Description != want[i].Description {
			t.Errorf("row %d: Description = %q, want %q", i, got[i].Description, want[i].Description)
		}
		if got[i].Amount != want[i].Amount {
			t.Errorf("row %d: Amount = %v, want %v", i, got[i].Amount, want[i].Amount)
		}
		if got[i].Kind != want[i].Kind {
			t.Errorf("row %d: Kind = %q, want %q", i, got[i].Kind, want[i].Kind)
		}
		if got[i].Category != want[i].Category {
			t.Errorf("row %d: Category = %q, want %q", i, got[i].Category, want[i].Category)
		}
		if !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("row %d: Timestamp = %v, want %v", i, got[i].Timestamp, want[i].Timestamp)
		}
	}
}

func TestSQLiteStorage_SaveReplacesRows(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveTransactions(ctx, createTestTransactions(4)); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}
	if err := store.SaveTransactions(ctx, createTestTransactions(2)); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}

	got, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("LoadTransactions() returned %d rows after overwrite, want 2", len(got))
	}

	if err := store.SaveTransactions(ctx, nil); err != nil {
		t.Fatalf("SaveTransactions(nil) error = %v", err)
	}
	got, err = store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadTransactions() returned %d rows after clearing, want 0", len(got))
	}
}

func TestSQLiteStorage_FailedSaveKeepsPreviousRows(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	original := []model.Budget{{Category: "Food", Limit: 100, Spent: 25}}
	if err := store.SaveBudgets(ctx, original); err != nil {
		t.Fatalf("SaveBudgets() error = %v", err)
	}

	// The second row violates the primary key on category_key.
	bad := []model.Budget{
		{Category: "Rent", Limit: 900},
		{Category: "RENT", Limit: 800},
	}
	if err := store.SaveBudgets(ctx, bad); err == nil {
		t.Fatal("SaveBudgets() with duplicate keys succeeded, want error")
	}

	got, err := store.LoadBudgets(ctx)
	if err != nil {
		t.Fatalf("LoadBudgets() error = %v", err)
	}
	if len(got) != 1 || got[0] != original[0] {
		t.Errorf("LoadBudgets() = %+v, want %+v", got, original)
	}
}

func TestSQLiteStorage_BudgetsAndDebtsKeepOrder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	budgets := []model.Budget{
		{Category: "Zoo", Limit: 10},
		{Category: "Food", Limit: 100, Spent: 40.25},
		{Category: "Apple", Limit: 5},
	}
	debts := []model.Debt{
		{Name: "Student Loan", Principal: 20000, MonthsRemaining: 48, InterestRate: 4.5},
		{Name: "Car Loan", Principal: 12000, MonthsRemaining: 12, InterestRate: 5, ExtraFees: 100, Paid: 500},
	}

	if err := store.SaveBudgets(ctx, budgets); err != nil {
		t.Fatalf("SaveBudgets() error = %v", err)
	}
	if err := store.SaveDebts(ctx, debts); err != nil {
		t.Fatalf("SaveDebts() error = %v", err)
	}

	gotBudgets, err := store.LoadBudgets(ctx)
	if err != nil {
		t.Fatalf("LoadBudgets() error = %v", err)
	}
	for i := range budgets {
		if gotBudgets[i] != budgets[i] {
			t.Errorf("budget %d = %+v, want %+v", i, gotBudgets[i], budgets[i])
		}
	}

	gotDebts, err := store.LoadDebts(ctx)
	if err != nil {
		t.Fatalf("LoadDebts() error = %v", err)
	}
	for i := range debts {
		if gotDebts[i] != debts[i] {
			t.Errorf("debt %d = %+v, want %+v", i, gotDebts[i], debts[i])
		}
	}
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	if err := store.SaveDebts(ctx, []model.Debt{{Name: "Card", Principal: 300, MonthsRemaining: 3}}); err != nil {
		t.Fatalf("SaveDebts() error = %v", err)
	}
	got, err := store.LoadDebts(ctx)
	if err != nil {
		t.Fatalf("LoadDebts() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Card" {
		t.Errorf("LoadDebts() = %+v, want one debt named Card", got)
	}
}

func TestSQLiteStorage_CanceledContext(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.SaveDebts(ctx, nil); err == nil {
		t.Error("SaveDebts() with canceled context succeeded, want error")
	}
	if _, err := store.LoadTransactions(ctx); err == nil {
		t.Error("LoadTransactions() with canceled context succeeded, want error")
	}
}
