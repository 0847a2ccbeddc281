// Package ledger holds the in-memory stores of the finance ledger: the
// transaction ledger, the budget book and the debt book. Stores validate
// every mutation completely before applying it, so a rejected call leaves
// the store unchanged. None of the stores are safe for concurrent use.
package ledger

import (
	"fmt"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/google/uuid"
)

// Default store capacities.
const (
	DefaultTransactionCapacity = 100
	DefaultBudgetCapacity      = 10
	DefaultDebtCapacity        = 10
)

// Ledger is an ordered, capacity-bounded collection of transactions.
type Ledger struct {
	now          func() time.Time
	newID        func() string
	transactions []model.Transaction
	capacity     int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used to timestamp new transactions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator overrides how transaction identities are generated.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// New creates an empty ledger. A non-positive capacity selects the default.
func New(capacity int, opts ...Option) *Ledger {
	if capacity <= 0 {
		capacity = DefaultTransactionCapacity
	}
	l := &Ledger{
		capacity: capacity,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add records a new transaction stamped with the current time and returns it.
func (l *Ledger) Add(description string, amount float64, kind model.Kind, category string) (model.Transaction, error) {
	tx := model.Transaction{
		Description: description,
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Timestamp:   l.now().Truncate(time.Second),
	}
	return l.insert(tx)
}

// Restore inserts a previously recorded transaction, keeping its timestamp.
// It applies the same validation and capacity rules as Add.
func (l *Ledger) Restore(tx model.Transaction) (model.Transaction, error) {
	tx.ID = ""
	tx.Timestamp = tx.Timestamp.Truncate(time.Second)
	return l.insert(tx)
}

func (l *Ledger) insert(tx model.Transaction) (model.Transaction, error) {
	if err := validateTransaction(tx); err != nil {
		return model.Transaction{}, err
	}
	if len(l.transactions) >= l.capacity {
		return model.Transaction{}, fmt.Errorf("%w: ledger holds at most %d transactions", common.ErrCapacityExceeded, l.capacity)
	}

	tx.Description = truncate(tx.Description, model.MaxDescriptionLength)
	tx.ID = l.newID()
	l.transactions = append(l.transactions, tx)
	return tx, nil
}

// Remove deletes the transaction with the given id. Remaining transactions
// keep their relative order.
func (l *Ledger) Remove(id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("transaction %q: %w", id, common.ErrNotFound)
	}
	l.transactions = append(l.transactions[:idx], l.transactions[idx+1:]...)
	return nil
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id string) (model.Transaction, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return model.Transaction{}, fmt.Errorf("transaction %q: %w", id, common.ErrNotFound)
	}
	return l.transactions[idx], nil
}

// At returns the transaction at a 1-based position of the newest-first view,
// which is the numbering shown to users.
func (l *Ledger) At(position int) (model.Transaction, error) {
	sorted := l.SortedByTimestampDescending()
	if position < 1 || position > len(sorted) {
		return model.Transaction{}, fmt.Errorf("transaction #%d: %w", position, common.ErrNotFound)
	}
	return sorted[position-1], nil
}

func (l *Ledger) indexOf(id string) int {
	for i, tx := range l.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// TotalByKind sums the amounts of all transactions of the given kind.
func (l *Ledger) TotalByKind(kind model.Kind) float64 {
	var total float64
	for _, tx := range l.transactions {
		if tx.Kind == kind {
			total += tx.Amount
		}
	}
	return total
}

// Net is total income minus total expenses.
func (l *Ledger) Net() float64 {
	return l.TotalByKind(model.KindIncome) - l.TotalByKind(model.KindExpense)
}

// SpendByKey sums expense amounts per normalized category.
func (l *Ledger) SpendByKey() map[model.Key]float64 {
	spend := make(map[model.Key]float64)
	for _, tx := range l.transactions {
		if tx.IsExpense() {
			spend[tx.Key()] += tx.Amount
		}
	}
	return spend
}

// SortedByTimestampDescending returns a newest-first copy of the ledger.
// Transactions with equal timestamps keep insertion order.
func (l *Ledger) SortedByTimestampDescending() []model.Transaction {
	sorted := l.All()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

// All returns a copy of the transactions in insertion order.
func (l *Ledger) All() []model.Transaction {
	out := make([]model.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int {
	return len(l.transactions)
}

// Capacity returns the maximum number of transactions the ledger accepts.
func (l *Ledger) Capacity() int {
	return l.capacity
}

func validateTransaction(tx model.Transaction) error {
	if !validPositive(tx.Amount) {
		return fmt.Errorf("%w: got %v", common.ErrInvalidAmount, tx.Amount)
	}
	if !tx.Kind.Valid() {
		return fmt.Errorf("%w: got %q", common.ErrInvalidKind, tx.Kind)
	}
	if tx.Key().IsEmpty() {
		return common.ErrEmptyCategory
	}
	return nil
}

// validPositive rejects negatives, NaN, infinities and values that round to
// zero at cent precision, since records are persisted with two decimals.
func validPositive(v float64) bool {
	return math.Round(v*100) >= 1 && !math.IsInf(v, 1)
}

// validNonNegative rejects negatives, NaN and infinities.
func validNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
