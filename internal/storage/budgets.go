package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/tally/internal/model"
)

// SaveBudgets replaces every stored budget with the given slice.
func (s *SQLiteStorage) SaveBudgets(ctx context.Context, budgets []model.Budget) error {
	rows := make([][]any, 0, len(budgets))
	for i, b := range budgets {
		rows = append(rows, []any{string(b.Key()), i, b.Category, b.Limit, b.Spent})
	}

	return s.replaceAll(ctx, "budgets", `
		INSERT INTO budgets (category_key, position, category, limit_amount, spent)
		VALUES (?, ?, ?, ?, ?)`, rows)
}

// LoadBudgets returns the stored budgets in insertion order.
func (s *SQLiteStorage) LoadBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, limit_amount, spent
		FROM budgets
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(&b.Category, &b.Limit, &b.Spent); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}
