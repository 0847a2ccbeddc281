package model

import (
	"fmt"
	"time"

	"github.com/Veraticus/tally/internal/common"
)

// TimestampLayout is the second-resolution layout used for stored timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// MaxDescriptionLength bounds the free-text description of a transaction.
const MaxDescriptionLength = 99

// Kind indicates whether money came in or went out.
type Kind string

const (
	// KindIncome represents money received.
	KindIncome Kind = "income"
	// KindExpense represents money spent.
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Char returns the single-character wire form of the kind (I or E).
func (k Kind) Char() byte {
	if k == KindIncome {
		return 'I'
	}
	return 'E'
}

// ParseKind accepts the wire characters (I/E, any case) as well as the
// spelled-out kind names.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "I", "i", "income", "Income", "INCOME":
		return KindIncome, nil
	case "E", "e", "expense", "Expense", "EXPENSE":
		return KindExpense, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidKind, s)
}

// Transaction is a single income or expense entry in the ledger.
type Transaction struct {
	Timestamp   time.Time
	ID          string
	Description string
	Category    string
	Kind        Kind
	Amount      float64
}

// Key returns the normalized category of the transaction.
func (t Transaction) Key() Key {
	return NormalizeKey(t.Category)
}

// IsExpense reports whether the transaction counts toward budgets and debts.
func (t Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}
