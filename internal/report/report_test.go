package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/model"
)

func sampleDashboard() engine.Dashboard {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	debts := []model.Debt{
		{Name: "Student Loan", Principal: 20000, MonthsRemaining: 48, InterestRate: 4.5},
		{Name: "Car Loan", Principal: 12000, MonthsRemaining: 12, InterestRate: 5, ExtraFees: 100, Paid: 1058.33},
	}
	return engine.Dashboard{
		Transactions: []model.Transaction{
			{Description: "Installment", Category: "Car Loan", Kind: model.KindExpense, Amount: 1058.33, Timestamp: ts},
		},
		Budgets: []engine.BudgetStatus{
			{Budget: model.Budget{Category: "Food", Limit: 100, Spent: 0}},
		},
		Debts:        debts,
		Ranking:      model.NewPriorityEntries(debts),
		TotalExpense: 1058.33,
		Net:          -1058.33,
	}
}

func TestBuild(t *testing.T) {
	generated := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	r := Build(sampleDashboard(), "Rs", generated)

	assert.Equal(t, "2024-02-01T09:00:00Z", r.GeneratedAt)
	assert.Equal(t, -1058.33, r.Totals.Net)
	require.Len(t, r.Transactions, 1)
	assert.Equal(t, "expense", r.Transactions[0].Kind)
	assert.Equal(t, "2024-01-15 10:30:00", r.Transactions[0].Timestamp)

	require.Len(t, r.Debts, 2)
	assert.Equal(t, "Car Loan", r.Debts[0].Name)
	assert.Equal(t, 1, r.Debts[0].Rank)
	assert.Equal(t, 1058.33, r.Debts[0].Installment)
	assert.Equal(t, 11641.67, r.Debts[0].Remaining)
	assert.Equal(t, 100.0, r.Budgets[0].Remaining)
}

func TestWrite(t *testing.T) {
	r := Build(sampleDashboard(), "Rs", time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, r, "YAML"))
		assert.Contains(t, buf.String(), "currency: Rs")

		var decoded Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, r, decoded)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, r, FormatJSON))
		assert.Contains(t, buf.String(), `"months_remaining": 12`)

		var decoded Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, r, decoded)
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, Write(&bytes.Buffer{}, r, "xml"))
	})
}

func TestBuild_EmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Build(engine.Dashboard{}, "Rs", time.Unix(0, 0).UTC()), FormatJSON))
	assert.Contains(t, buf.String(), `"transactions": []`)
}
