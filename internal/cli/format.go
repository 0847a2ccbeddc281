package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/Veraticus/tally/internal/model"
)

// Formatter renders ledger values for the terminal.
type Formatter struct {
	Currency string
}

// NewFormatter returns a formatter that prefixes amounts with currency.
func NewFormatter(currency string) Formatter {
	return Formatter{Currency: strings.TrimSpace(currency)}
}

// Money formats v with thousands separators and two decimals.
func (f Formatter) Money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	amount := humanize.FormatFloat("#,###.##", v)
	if f.Currency == "" {
		return sign + amount
	}
	return sign + f.Currency + " " + amount
}

type table struct {
	w       *tabwriter.Writer
	err     error
	columns int
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		columns: len(headers),
	}

	styled := make([]string, len(headers))
	rule := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = TableHeaderStyle.Render(h)
		rule[i] = strings.Repeat("─", max(len(h), 6))
	}
	t.row(styled...)
	t.row(rule...)
	return t
}

func (t *table) row(cells ...string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	if t.err != nil {
		return fmt.Errorf("failed to write table: %w", t.err)
	}
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}
	return nil
}

// WriteTable writes rows under a styled header.
func WriteTable(out io.Writer, headers []string, rows [][]string) error {
	t := newTable(out, headers...)
	for _, r := range rows {
		t.row(r...)
	}
	return t.flush()
}

// WriteTransactions writes a numbered table of transactions in the order
// given. Row numbers are the positions accepted by "tx delete".
func (f Formatter) WriteTransactions(out io.Writer, transactions []model.Transaction) error {
	t := newTable(out, "#", "Date", "Type", "Category", "Amount", "Description")
	for i, tx := range transactions {
		t.row(
			strconv.Itoa(i+1),
			tx.Timestamp.Format(model.TimestampLayout),
			StyleKind(tx.Kind, string(tx.Kind)),
			tx.Category,
			StyleKind(tx.Kind, f.Money(tx.Amount)),
			tx.Description,
		)
	}
	return t.flush()
}

// WriteBudgets writes budgets with their spend, remaining amount and an
// exceeded marker.
func (f Formatter) WriteBudgets(out io.Writer, budgets []model.Budget) error {
	t := newTable(out, "Category", "Limit", "Spent", "Remaining", "Status")
	for _, b := range budgets {
		status := SuccessStyle.Render("ok")
		if b.Exceeded() {
			status = WarningStyle.Render("EXCEEDED")
		}
		t.row(b.Category, f.Money(b.Limit), f.Money(b.Spent), f.Money(b.Remaining()), status)
	}
	return t.flush()
}

// WriteDebts writes debts with their repayment terms and progress.
func (f Formatter) WriteDebts(out io.Writer, debts []model.Debt) error {
	t := newTable(out, "Name", "Principal", "Rate", "Fees", "Months", "Total Due", "Paid", "Remaining", "Installment")
	for _, d := range debts {
		t.row(
			d.Name,
			f.Money(d.Principal),
			strconv.FormatFloat(d.InterestRate, 'f', 2, 64)+"%",
			f.Money(d.ExtraFees),
			strconv.Itoa(d.MonthsRemaining),
			f.Money(d.TotalDue()),
			f.Money(d.Paid),
			f.Money(d.Remaining()),
			f.Money(d.Installment()),
		)
	}
	return t.flush()
}

// WriteRanking writes debts in repayment priority order.
func (f Formatter) WriteRanking(out io.Writer, entries model.PriorityEntries) error {
	t := newTable(out, "Rank", "Name", "Monthly Installment", "Remaining")
	for _, e := range entries {
		t.row(strconv.Itoa(e.Rank), e.Debt.Name, f.Money(e.Installment), f.Money(e.Debt.Remaining()))
	}
	if err := t.flush(); err != nil {
		return err
	}

	if len(entries) > 0 {
		top := entries.Top()
		_, err := fmt.Fprintf(out, "\n%s\n%s\n",
			FormatInfo(fmt.Sprintf("Pay %s first.", top.Debt.Name)),
			SubtleStyle.Render("Total monthly commitment: "+f.Money(entries.TotalInstallments())))
		if err != nil {
			return fmt.Errorf("failed to write ranking footer: %w", err)
		}
	}
	return nil
}

// Summary renders income, expense and net totals in a box.
func (f Formatter) Summary(income, expense, net float64) string {
	netLine := SuccessStyle.Render(f.Money(net))
	if net < 0 {
		netLine = ErrorStyle.Render(f.Money(net))
	}

	content := strings.Join([]string{
		"Total income:  " + IncomeStyle.Render(f.Money(income)),
		"Total expense: " + ExpenseStyle.Render(f.Money(expense)),
		"Net balance:   " + netLine,
	}, "\n")
	return RenderBox(ChartIcon+" Summary", content)
}
