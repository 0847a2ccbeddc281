package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/model"
)

// SaveDebts replaces every stored debt with the given slice.
func (s *SQLiteStorage) SaveDebts(ctx context.Context, debts []model.Debt) error {
	rows := make([][]any, 0, len(debts))
	for i, d := range debts {
		rows = append(rows, []any{
			string(d.Key()), i, d.Name, d.Principal,
			d.MonthsRemaining, d.InterestRate, d.ExtraFees, d.Paid,
		})
	}

	return s.replaceAll(ctx, "debts", `
		INSERT INTO debts (name_key, position, name, principal, months_remaining, interest_rate, extra_fees, paid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, rows)
}

// LoadDebts returns the stored debts in insertion order.
func (s *SQLiteStorage) LoadDebts(ctx context.Context) ([]model.Debt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, principal, months_remaining, interest_rate, extra_fees, paid
		FROM debts
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var debts []model.Debt
	for rows.Next() {
		var d model.Debt
		if err := rows.Scan(&d.Name, &d.Principal, &d.MonthsRemaining, &d.InterestRate, &d.ExtraFees, &d.Paid); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debts: %w", err)
	}
	return debts, nil
}
