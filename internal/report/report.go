// Package report exports a snapshot of the ledger as YAML or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/model"
)

// Supported output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Report is the exported view of the ledger. Amounts are rounded to cents.
type Report struct {
	GeneratedAt  string        `yaml:"generated_at" json:"generated_at"`
	Currency     string        `yaml:"currency" json:"currency"`
	Totals       Totals        `yaml:"totals" json:"totals"`
	Transactions []Transaction `yaml:"transactions" json:"transactions"`
	Budgets      []Budget      `yaml:"budgets" json:"budgets"`
	Debts        []Debt        `yaml:"debts" json:"debts"`
}

// Totals summarizes money in and out.
type Totals struct {
	Income  float64 `yaml:"income" json:"income"`
	Expense float64 `yaml:"expense" json:"expense"`
	Net     float64 `yaml:"net" json:"net"`
}

// Transaction is one ledger entry.
type Transaction struct {
	Timestamp   string  `yaml:"timestamp" json:"timestamp"`
	Kind        string  `yaml:"kind" json:"kind"`
	Category    string  `yaml:"category" json:"category"`
	Description string  `yaml:"description" json:"description"`
	Amount      float64 `yaml:"amount" json:"amount"`
}

// Budget is a category limit with its reconciled spend.
type Budget struct {
	Category  string  `yaml:"category" json:"category"`
	Limit     float64 `yaml:"limit" json:"limit"`
	Spent     float64 `yaml:"spent" json:"spent"`
	Remaining float64 `yaml:"remaining" json:"remaining"`
	Exceeded  bool    `yaml:"exceeded" json:"exceeded"`
}

// Debt is a debt with its repayment priority.
type Debt struct {
	Name            string  `yaml:"name" json:"name"`
	Rank            int     `yaml:"rank" json:"rank"`
	Principal       float64 `yaml:"principal" json:"principal"`
	InterestRate    float64 `yaml:"interest_rate" json:"interest_rate"`
	ExtraFees       float64 `yaml:"extra_fees" json:"extra_fees"`
	MonthsRemaining int     `yaml:"months_remaining" json:"months_remaining"`
	TotalDue        float64 `yaml:"total_due" json:"total_due"`
	Installment     float64 `yaml:"installment" json:"installment"`
	Paid            float64 `yaml:"paid" json:"paid"`
	Remaining       float64 `yaml:"remaining" json:"remaining"`
}

// Build converts a dashboard into a report. Transactions keep the
// dashboard's newest-first order and debts follow repayment priority.
func Build(d engine.Dashboard, currency string, generatedAt time.Time) Report {
	r := Report{
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Currency:    currency,
		Totals: Totals{
			Income:  cents(d.TotalIncome),
			Expense: cents(d.TotalExpense),
			Net:     cents(d.Net),
		},
		Transactions: make([]Transaction, 0, len(d.Transactions)),
		Budgets:      make([]Budget, 0, len(d.Budgets)),
		Debts:        make([]Debt, 0, len(d.Ranking)),
	}

	for _, tx := range d.Transactions {
		r.Transactions = append(r.Transactions, Transaction{
			Timestamp:   tx.Timestamp.Format(model.TimestampLayout),
			Kind:        string(tx.Kind),
			Category:    tx.Category,
			Description: tx.Description,
			Amount:      cents(tx.Amount),
		})
	}

	for _, b := range d.Budgets {
		r.Budgets = append(r.Budgets, Budget{
			Category:  b.Category,
			Limit:     cents(b.Limit),
			Spent:     cents(b.Spent),
			Remaining: cents(b.Remaining()),
			Exceeded:  b.Exceeded,
		})
	}

	for _, e := range d.Ranking {
		r.Debts = append(r.Debts, Debt{
			Name:            e.Debt.Name,
			Rank:            e.Rank,
			Principal:       cents(e.Debt.Principal),
			InterestRate:    cents(e.Debt.InterestRate),
			ExtraFees:       cents(e.Debt.ExtraFees),
			MonthsRemaining: e.Debt.MonthsRemaining,
			TotalDue:        cents(e.Debt.TotalDue()),
			Installment:     cents(e.Installment),
			Paid:            cents(e.Debt.Paid),
			Remaining:       cents(e.Debt.Remaining()),
		})
	}

	return r
}

// Write encodes r to w in the given format.
func Write(w io.Writer, r Report, format string) error {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported report format %q (use %s or %s)", format, FormatYAML, FormatJSON)
	}
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
