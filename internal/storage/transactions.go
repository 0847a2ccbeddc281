package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// SaveTransactions replaces every stored transaction with the given slice.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	rows := make([][]any, 0, len(transactions))
	for i, txn := range transactions {
		rows = append(rows, []any{
			txn.ID,
			i,
			txn.Description,
			txn.Amount,
			string(txn.Kind.Char()),
			txn.Category,
			string(txn.Key()),
			txn.Timestamp.In(time.Local).Format(model.TimestampLayout),
		})
	}

	return s.replaceAll(ctx, "transactions", `
		INSERT INTO transactions (id, position, description, amount, kind, category, category_key, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, rows)
}

// LoadTransactions returns the stored transactions in insertion order.
func (s *SQLiteStorage) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, kind, category, timestamp
		FROM transactions
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var kind, timestamp string
		if err := rows.Scan(&txn.ID, &txn.Description, &txn.Amount, &kind, &txn.Category, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Kind, err = model.ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", txn.ID, err)
		}
		txn.Timestamp, err = time.ParseInLocation(model.TimestampLayout, timestamp, time.Local)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: invalid timestamp: %w", txn.ID, err)
		}

		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}
