package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// File names used inside the data directory.
const (
	TransactionsFile = "transactions.csv"
	BudgetsFile      = "budgets.csv"
	DebtsFile        = "debts.csv"
)

// FlatFileStorage implements service.Storage with three comma-delimited text
// files. Fields are written unescaped and without a header line, so a field
// that contains a comma produces a line that is skipped on the next load.
type FlatFileStorage struct {
	dir string
}

// NewFlatFileStorage returns a storage rooted at dir, creating it if needed.
func NewFlatFileStorage(dir string) (*FlatFileStorage, error) {
	if err := validateString(dir, "dir"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FlatFileStorage{dir: dir}, nil
}

// Dir returns the data directory.
func (f *FlatFileStorage) Dir() string {
	return f.dir
}

// Close is a no-op; files are opened and closed per call.
func (f *FlatFileStorage) Close() error {
	return nil
}

// LoadTransactions reads transactions.csv. Malformed lines are skipped.
func (f *FlatFileStorage) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := f.readLines(ctx, TransactionsFile, 5, func(fields []string) error {
		txn, err := parseTransaction(fields)
		if err != nil {
			return err
		}
		transactions = append(transactions, txn)
		return nil
	})
	return transactions, err
}

// SaveTransactions overwrites transactions.csv.
func (f *FlatFileStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	return f.writeLines(ctx, TransactionsFile, func(w io.Writer) error {
		for _, txn := range transactions {
			if _, err := fmt.Fprintf(w, "%s,%.2f,%c,%s,%s\n",
				txn.Description, txn.Amount, txn.Kind.Char(), txn.Category,
				txn.Timestamp.In(time.Local).Format(model.TimestampLayout)); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadBudgets reads budgets.csv. Malformed lines are skipped.
func (f *FlatFileStorage) LoadBudgets(ctx context.Context) ([]model.Budget, error) {
	var budgets []model.Budget
	err := f.readLines(ctx, BudgetsFile, 3, func(fields []string) error {
		b, err := parseBudget(fields)
		if err != nil {
			return err
		}
		budgets = append(budgets, b)
		return nil
	})
	return budgets, err
}

// SaveBudgets overwrites budgets.csv.
func (f *FlatFileStorage) SaveBudgets(ctx context.Context, budgets []model.Budget) error {
	return f.writeLines(ctx, BudgetsFile, func(w io.Writer) error {
		for _, b := range budgets {
			if _, err := fmt.Fprintf(w, "%s,%.2f,%.2f\n", b.Category, b.Limit, b.Spent); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadDebts reads debts.csv. Malformed lines are skipped.
func (f *FlatFileStorage) LoadDebts(ctx context.Context) ([]model.Debt, error) {
	var debts []model.Debt
	err := f.readLines(ctx, DebtsFile, 6, func(fields []string) error {
		d, err := parseDebt(fields)
		if err != nil {
			return err
		}
		debts = append(debts, d)
		return nil
	})
	return debts, err
}

// SaveDebts overwrites debts.csv.
func (f *FlatFileStorage) SaveDebts(ctx context.Context, debts []model.Debt) error {
	return f.writeLines(ctx, DebtsFile, func(w io.Writer) error {
		for _, d := range debts {
			if _, err := fmt.Fprintf(w, "%s,%.2f,%d,%.2f,%.2f,%.2f\n",
				d.Name, d.Principal, d.MonthsRemaining, d.InterestRate, d.ExtraFees, d.Paid); err != nil {
				return err
			}
		}
		return nil
	})
}

// readLines calls parse for every line of name that splits into exactly
// want fields. A missing file yields no lines.
func (f *FlatFileStorage) readLines(ctx context.Context, name string, want int, parse func([]string) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	path := filepath.Join(f.dir, name)
	file, err := os.Open(path) //nolint:gosec // path is built from the configured data directory
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != want {
			slog.Warn("Skipping malformed line",
				"file", name, "line", lineNo,
				"fields", len(fields), "expected", want)
			continue
		}
		if err := parse(fields); err != nil {
			slog.Warn("Skipping malformed line", "file", name, "line", lineNo, "error", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	return nil
}

func (f *FlatFileStorage) writeLines(ctx context.Context, name string, write func(io.Writer) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(f.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	w := bufio.NewWriter(file)
	if err := write(w); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

func parseTransaction(fields []string) (model.Transaction, error) {
	amount, err := parseAmount(fields[1])
	if err != nil {
		return model.Transaction{}, err
	}
	if len(fields[2]) != 1 {
		return model.Transaction{}, malformed("kind %q", fields[2])
	}
	kind, err := model.ParseKind(fields[2])
	if err != nil {
		return model.Transaction{}, malformed("%v", err)
	}
	ts, err := time.ParseInLocation(model.TimestampLayout, fields[4], time.Local)
	if err != nil {
		return model.Transaction{}, malformed("timestamp %q", fields[4])
	}

	return model.Transaction{
		Description: fields[0],
		Amount:      amount,
		Kind:        kind,
		Category:    fields[3],
		Timestamp:   ts,
	}, nil
}

func parseBudget(fields []string) (model.Budget, error) {
	limit, err := parseAmount(fields[1])
	if err != nil {
		return model.Budget{}, err
	}
	spent, err := parseAmount(fields[2])
	if err != nil {
		return model.Budget{}, err
	}
	return model.Budget{Category: fields[0], Limit: limit, Spent: spent}, nil
}

func parseDebt(fields []string) (model.Debt, error) {
	principal, err := parseAmount(fields[1])
	if err != nil {
		return model.Debt{}, err
	}
	months, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return model.Debt{}, malformed("months %q", fields[2])
	}
	rate, err := parseAmount(fields[3])
	if err != nil {
		return model.Debt{}, err
	}
	fees, err := parseAmount(fields[4])
	if err != nil {
		return model.Debt{}, err
	}
	paid, err := parseAmount(fields[5])
	if err != nil {
		return model.Debt{}, err
	}

	return model.Debt{
		Name:            fields[0],
		Principal:       principal,
		MonthsRemaining: months,
		InterestRate:    rate,
		ExtraFees:       fees,
		Paid:            paid,
	}, nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, malformed("number %q", s)
	}
	return v, nil
}
