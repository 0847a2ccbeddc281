package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/storage"
)

// runTally executes the root command against dataDir with stdin as input.
func runTally(t *testing.T, dataDir, stdin string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--data-dir", dataDir, "--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, dataDir, stdin string, args ...string) string {
	t.Helper()
	out, err := runTally(t, dataDir, stdin, args...)
	require.NoError(t, err, out)
	return out
}

func TestVersionCommand(t *testing.T) {
	out := mustRun(t, t.TempDir(), "", "version")
	assert.Equal(t, "tally dev\n", out)
}

func TestTransactionLifecycle(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "", "tx", "add", "-d", "Salary", "-a", "1000", "-k", "I", "-c", "Job")
	assert.Contains(t, out, "Recorded income of Rs 1,000.00 in Job")

	mustRun(t, dir, "", "tx", "add", "-d", "Lunch", "-a", "12.5", "-k", "E", "-c", "Food")

	data, err := os.ReadFile(filepath.Join(dir, storage.TransactionsFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Salary,1000.00,I,Job,"))
	assert.True(t, strings.HasPrefix(lines[1], "Lunch,12.50,E,Food,"))

	out = mustRun(t, dir, "", "tx", "list")
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "Net balance:   Rs 987.50")

	out = mustRun(t, dir, "", "tx", "delete", "1", "--force")
	assert.Contains(t, out, `Deleted "`)

	data, err = os.ReadFile(filepath.Join(dir, storage.TransactionsFile))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}

func TestTransactionAddPromptsForMissingValues(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "Coffee\nabc\n4.5\nX\nE\nDrinks\n", "tx", "add")
	assert.Contains(t, out, "Recorded expense of Rs 4.50 in Drinks")
}

func TestTransactionAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		want error
		args []string
	}{
		{
			name: "negative amount",
			args: []string{"tx", "add", "-d", "x", "-a", "-5", "-k", "E", "-c", "Food"},
			want: common.ErrInvalidAmount,
		},
		{
			name: "blank category",
			args: []string{"tx", "add", "-d", "x", "-a", "5", "-k", "E", "-c", " "},
			want: common.ErrEmptyCategory,
		},
		{
			name: "unknown kind",
			args: []string{"tx", "add", "-d", "x", "-a", "5", "-k", "Z", "-c", "Food"},
			want: common.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := runTally(t, dir, "", tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var userErr *common.UserError
			assert.ErrorAs(t, err, &userErr)

			_, statErr := os.Stat(filepath.Join(dir, storage.TransactionsFile))
			assert.True(t, os.IsNotExist(statErr), "nothing is saved for rejected input")
		})
	}
}

func TestBudgetExceededWarning(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "", "budget", "set", "Food", "100")
	assert.Contains(t, out, "Created budget for Food")

	out = mustRun(t, dir, "", "tx", "add", "-d", "Feast", "-a", "150", "-k", "E", "-c", "food")
	assert.Contains(t, out, "Budget exceeded for Food: spent Rs 150.00 of Rs 100.00")

	out = mustRun(t, dir, "", "budget", "list")
	assert.Contains(t, out, "EXCEEDED")

	out = mustRun(t, dir, "", "budget", "set", "FOOD", "200")
	assert.Contains(t, out, "Updated budget for")
	assert.NotContains(t, out, "Budget exceeded")

	mustRun(t, dir, "", "budget", "delete", "food")
	out = mustRun(t, dir, "", "budget", "list")
	assert.NotContains(t, out, "EXCEEDED")
}

func TestDebtRanking(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "", "debt", "add", "Phone", "--principal", "600", "--months", "12", "--rate", "0", "--fees", "0")
	mustRun(t, dir, "", "debt", "add", "Car Loan", "--principal", "12000", "--months", "12", "--rate", "5", "--fees", "100")

	out := mustRun(t, dir, "", "debt", "rank")
	assert.Contains(t, out, "Pay Car Loan first.")
	assert.Less(t, strings.Index(out, "Car Loan"), strings.Index(out, "Phone"))

	_, err := runTally(t, dir, "", "debt", "add", "phone", "--principal", "1", "--months", "1", "--rate", "0", "--fees", "0")
	assert.ErrorIs(t, err, common.ErrDuplicateKey)

	mustRun(t, dir, "", "debt", "edit", "phone", "--principal", "60000")
	out = mustRun(t, dir, "", "debt", "rank")
	assert.Contains(t, out, "Pay Phone first.")

	mustRun(t, dir, "", "tx", "add", "-d", "Installment", "-a", "1000", "-k", "E", "-c", "car loan")
	out = mustRun(t, dir, "", "debt", "list")
	assert.Contains(t, out, "Rs 11,700.00", "remaining balance reflects the repayment")
}

func TestSummaryCommand(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "", "tx", "add", "-d", "Pay", "-a", "500", "-k", "I", "-c", "Job")
	mustRun(t, dir, "", "tx", "add", "-d", "Rent", "-a", "800", "-k", "E", "-c", "Rent")
	mustRun(t, dir, "", "budget", "set", "Rent", "700")

	out := mustRun(t, dir, "", "summary")
	assert.Contains(t, out, "Total income:  Rs 500.00")
	assert.Contains(t, out, "Net balance:   -Rs 300.00")
	assert.Contains(t, out, "Budget exceeded for Rent")
}

func TestReportJSON(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "", "tx", "add", "-d", "Lunch", "-a", "12.5", "-k", "E", "-c", "Food")
	mustRun(t, dir, "", "budget", "set", "Food", "10")

	out := mustRun(t, dir, "", "report", "--format", "json")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "Rs", doc["currency"])
	assert.Len(t, doc["transactions"], 1)
	assert.Len(t, doc["budgets"], 1)
}

func TestReportToFile(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "", "budget", "set", "Food", "10")

	path := filepath.Join(t.TempDir(), "ledger.yaml")
	out := mustRun(t, dir, "", "report", "--output", path)
	assert.Contains(t, out, "Report written to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "category: Food")
}

func TestReportRejectsUnknownFormat(t *testing.T) {
	_, err := runTally(t, t.TempDir(), "", "report", "--format", "xml")
	assert.Error(t, err)
}

func TestSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "", "--backend", "sqlite", "tx", "add", "-d", "Lunch", "-a", "12.5", "-k", "E", "-c", "Food")

	_, err := os.Stat(filepath.Join(dir, "tally.db"))
	require.NoError(t, err)

	out := mustRun(t, dir, "", "--backend", "sqlite", "tx", "list")
	assert.Contains(t, out, "Lunch")
}

func TestInvalidBackend(t *testing.T) {
	_, err := runTally(t, t.TempDir(), "", "--backend", "mongo", "summary")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestMenuAddExpenseCreatesBudget(t *testing.T) {
	dir := t.TempDir()

	input := strings.Join([]string{
		"1", "Lunch", "50", "E", "Food", "y", "40",
		"12",
	}, "\n") + "\n"
	out := mustRun(t, dir, input, "menu")

	assert.Contains(t, out, "No budget set for Food. Set one now?")
	assert.Contains(t, out, "Budget exceeded for Food")
	assert.Contains(t, out, "Data saved. Goodbye!")

	data, err := os.ReadFile(filepath.Join(dir, storage.BudgetsFile))
	require.NoError(t, err)
	assert.Equal(t, "Food,40.00,50.00\n", string(data))
}

func TestMenuKeepsExpenseWhenBudgetBookIsFull(t *testing.T) {
	dir := t.TempDir()

	var budgets strings.Builder
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&budgets, "Category%d,100.00,0.00\n", i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.BudgetsFile), []byte(budgets.String()), 0600))

	input := strings.Join([]string{
		"1", "Lunch", "50", "E", "Food", "y", "40",
		"12",
	}, "\n") + "\n"
	out := mustRun(t, dir, input, "menu")

	assert.Contains(t, out, "Recorded expense of Rs 50.00 in Food")
	assert.Contains(t, out, "Budget not set")
	assert.Contains(t, out, "Data saved. Goodbye!")

	data, err := os.ReadFile(filepath.Join(dir, storage.TransactionsFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Lunch,50.00,E,Food,"), string(data))

	data, err = os.ReadFile(filepath.Join(dir, storage.BudgetsFile))
	require.NoError(t, err)
	assert.Equal(t, budgets.String(), string(data))
}

func TestMenuRefusesTransactionWhenLedgerIsFull(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TALLY_LIMITS_TRANSACTIONS", "1")

	existing := "Rent,900.00,E,Housing,2024-01-15 10:30:00\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.TransactionsFile), []byte(existing), 0600))

	out := mustRun(t, dir, "1\n12\n", "menu")

	assert.Contains(t, out, "Transaction not recorded")
	assert.NotContains(t, out, "Description")
	assert.Contains(t, out, "Data saved. Goodbye!")

	data, err := os.ReadFile(filepath.Join(dir, storage.TransactionsFile))
	require.NoError(t, err)
	assert.Equal(t, existing, string(data))
}

func TestMenuDebtsAndBudgets(t *testing.T) {
	dir := t.TempDir()

	input := strings.Join([]string{
		"7", "Car", "1200", "12", "0", "0",
		"8", "car", "2400", "12", "0", "0",
		"3", "Food", "100",
		"3", "food", "y", "150",
		"4", "Travel",
		"5", "Food",
		"11",
		"99",
		"12",
	}, "\n") + "\n"
	out := mustRun(t, dir, input, "menu")

	assert.Contains(t, out, "Added Car: Rs 100.00/month")
	assert.Contains(t, out, "Updated Car: Rs 200.00/month")
	assert.Contains(t, out, "Budget for food already exists. Update amount?")
	assert.Contains(t, out, "Budget not found")
	assert.Contains(t, out, "Pay Car first.")
	assert.Contains(t, out, "Invalid choice")

	data, err := os.ReadFile(filepath.Join(dir, storage.DebtsFile))
	require.NoError(t, err)
	assert.Equal(t, "Car,2400.00,12,0.00,0.00,0.00\n", string(data))

	data, err = os.ReadFile(filepath.Join(dir, storage.BudgetsFile))
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

func TestMenuEndOfInputKeepsSavedChanges(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "5\nMissing\n3\nRent\n900\n", "menu")

	data, err := os.ReadFile(filepath.Join(dir, storage.BudgetsFile))
	require.NoError(t, err)
	assert.Equal(t, "Rent,900.00,0.00\n", string(data))
}

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240131120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024013101
<NAME>ACME CORP PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func writeStatement(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.ofx")
	require.NoError(t, os.WriteFile(path, []byte(statementOFX), 0o600))
	return path
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t)

	out := mustRun(t, dir, "", "import", path, "--category", "Groceries")
	assert.Contains(t, out, "Imported 2 of 2 transactions")

	data, err := os.ReadFile(filepath.Join(dir, storage.TransactionsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Whole Foods Market,25.50,E,Groceries,")
	assert.Contains(t, string(data), "ACME CORP PAYROLL,1500.00,I,Groceries,")
}

func TestImportListsAccounts(t *testing.T) {
	out := mustRun(t, t.TempDir(), "", "import", writeStatement(t), "--accounts")
	assert.Equal(t, "1234567890\n", out)
}

func TestImportStopsAtCapacity(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TALLY_LIMITS_TRANSACTIONS", "1")

	out, err := runTally(t, dir, "", "import", writeStatement(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCapacityExceeded)
	assert.Contains(t, out, "Imported 1 of 2 transactions")

	data, readErr := os.ReadFile(filepath.Join(dir, storage.TransactionsFile))
	require.NoError(t, readErr)
	assert.Equal(t, 1, strings.Count(string(data), "\n"), "transactions before the limit are kept")
}

func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "", "import", writeStatement(t), "--dry-run")
	assert.Contains(t, out, "Dry run")

	_, err := os.Stat(filepath.Join(dir, storage.TransactionsFile))
	assert.True(t, os.IsNotExist(err))
}

func TestCheckpointLifecycle(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "", "budget", "set", "Food", "100")

	out := mustRun(t, dir, "", "checkpoint", "create", "before-cleanup", "-m", "one budget")
	assert.Contains(t, out, "Created checkpoint before-cleanup (0 transactions, 1 budgets, 0 debts)")

	mustRun(t, dir, "", "budget", "delete", "Food")

	out = mustRun(t, dir, "", "checkpoint", "list")
	assert.Contains(t, out, "before-cleanup")
	assert.Contains(t, out, "one budget")

	out = mustRun(t, dir, "n\n", "checkpoint", "restore", "before-cleanup")
	assert.Contains(t, out, "Nothing restored.")

	mustRun(t, dir, "y\n", "checkpoint", "restore", "before-cleanup")
	out = mustRun(t, dir, "", "budget", "list")
	assert.Contains(t, out, "Food")

	mustRun(t, dir, "", "checkpoint", "delete", "before-cleanup")
	_, err := runTally(t, dir, "", "checkpoint", "restore", "before-cleanup", "--force")
	assert.ErrorIs(t, err, storage.ErrCheckpointNotFound)
}

func TestImportTakesCheckpoint(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "", "import", writeStatement(t))

	out := mustRun(t, dir, "", "checkpoint", "list")
	assert.Contains(t, out, "auto-import-")
}
