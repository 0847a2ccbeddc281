package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
)

type menuAction struct {
	run   func(ctx context.Context) error
	label string
}

// menu drives the numbered interactive loop. Every mutation is saved
// before the next prompt.
type menu struct {
	s       *session
	p       *cli.Prompter
	actions []menuAction
}

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Manage the ledger from an interactive menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			handler := cli.NewInterruptHandler(cmd.OutOrStdout(), "Changes made so far are saved.")
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			m := newMenu(s, cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err := m.loop(ctx); err != nil && !isInputEnd(err) {
				return err
			}
			return nil
		},
	}
}

func newMenu(s *session, p *cli.Prompter) *menu {
	m := &menu{s: s, p: p}
	m.actions = []menuAction{
		{label: "Add Transaction", run: m.addTransaction},
		{label: "View Transactions", run: m.viewTransactions},
		{label: "Set Budget", run: m.setBudget},
		{label: "Edit Budget", run: m.editBudget},
		{label: "Delete Budget", run: m.deleteBudget},
		{label: "View Budgets", run: m.viewBudgets},
		{label: "Add Debt", run: m.addDebt},
		{label: "Edit Debt", run: m.editDebt},
		{label: "Delete Debt", run: m.deleteDebt},
		{label: "View Debts", run: m.viewDebts},
		{label: "View Priority Debts", run: m.viewRanking},
		{label: "Save & Exit"},
	}
	return m
}

func (m *menu) loop(ctx context.Context) error {
	for {
		m.p.Println()
		m.p.Println(cli.FormatTitle("Personal Finance Tracker"))
		for i, a := range m.actions {
			m.p.Println(fmt.Sprintf("%2d. %s", i+1, a.label))
		}

		choice, err := m.p.PromptInt(ctx, "Choose an option", 1)
		if err != nil {
			return err
		}
		if choice > len(m.actions) {
			m.p.Println(cli.FormatWarning("Invalid choice. Please try again."))
			continue
		}

		action := m.actions[choice-1]
		if action.run == nil {
			if err := m.s.save(ctx); err != nil {
				return err
			}
			m.p.Println(cli.FormatSuccess("Data saved. Goodbye!"))
			return nil
		}

		if err := action.run(ctx); err != nil {
			if isInputEnd(err) {
				return err
			}
			m.p.Println(cli.FormatError(errorMessage(err)))
		}
	}
}

// commit saves after a successful mutation.
func (m *menu) commit(ctx context.Context, message string) error {
	if err := m.s.save(ctx); err != nil {
		return err
	}
	m.p.Println(cli.FormatSuccess(message))
	return nil
}

func (m *menu) addTransaction(ctx context.Context) error {
	l := m.s.engine.Ledger()
	if l.Len() >= l.Capacity() {
		return userError("Transaction not recorded",
			fmt.Errorf("%w: ledger holds at most %d transactions", common.ErrCapacityExceeded, l.Capacity()))
	}

	description, err := m.p.PromptString(ctx, "Description")
	if err != nil {
		return err
	}
	amount, err := m.p.PromptAmount(ctx, "Amount")
	if err != nil {
		return err
	}
	kind, err := m.p.PromptKind(ctx)
	if err != nil {
		return err
	}
	category, err := m.p.PromptString(ctx, "Category")
	if err != nil {
		return err
	}

	result, err := m.s.engine.AddTransaction(description, amount, kind, category)
	if err != nil {
		return userError("Transaction not recorded", err)
	}
	m.s.reportTransaction(result)
	if err := m.s.save(ctx); err != nil {
		return err
	}

	if kind != model.KindExpense || m.s.engine.Budgets().Has(category) {
		return nil
	}
	create, err := m.p.PromptYesNo(ctx, fmt.Sprintf("No budget set for %s. Set one now?", category))
	if err != nil || !create {
		return err
	}
	limit, err := m.p.PromptAmount(ctx, "Budget limit")
	if err != nil {
		return err
	}
	budget, _, err := m.s.engine.SetBudget(category, limit)
	if err != nil {
		m.p.Println(cli.FormatWarning(fmt.Sprintf("Budget not set: %s", errorMessage(err))))
		return nil
	}
	return m.commitBudget(ctx, budget)
}

func (m *menu) viewTransactions(context.Context) error {
	txns := m.s.engine.Ledger().SortedByTimestampDescending()
	if len(txns) == 0 {
		m.p.Println(cli.InfoStyle.Render("No transactions recorded."))
		return nil
	}
	if err := m.s.format.WriteTransactions(m.p.Writer(), txns); err != nil {
		return err
	}
	d := m.s.engine.Dashboard()
	m.p.Println(m.s.format.Summary(d.TotalIncome, d.TotalExpense, d.Net))
	return nil
}

func (m *menu) setBudget(ctx context.Context) error {
	category, err := m.p.PromptString(ctx, "Category")
	if err != nil {
		return err
	}
	if m.s.engine.Budgets().Has(category) {
		update, err := m.p.PromptYesNo(ctx, fmt.Sprintf("Budget for %s already exists. Update amount?", category))
		if err != nil {
			return err
		}
		if !update {
			return nil
		}
	}
	return m.promptLimit(ctx, category)
}

func (m *menu) editBudget(ctx context.Context) error {
	category, err := m.p.PromptString(ctx, "Category to edit")
	if err != nil {
		return err
	}
	if !m.s.engine.Budgets().Has(category) {
		return userError("Budget not found", fmt.Errorf("%w: budget %q", common.ErrNotFound, category))
	}
	return m.promptLimit(ctx, category)
}

func (m *menu) promptLimit(ctx context.Context, category string) error {
	limit, err := m.p.PromptAmount(ctx, "Budget limit")
	if err != nil {
		return err
	}
	budget, _, err := m.s.engine.SetBudget(category, limit)
	if err != nil {
		return userError("Budget not set", err)
	}
	return m.commitBudget(ctx, budget)
}

func (m *menu) commitBudget(ctx context.Context, budget model.Budget) error {
	if err := m.commit(ctx, fmt.Sprintf("Budget for %s set to %s", budget.Category, m.s.format.Money(budget.Limit))); err != nil {
		return err
	}
	if budget.Exceeded() {
		m.p.Println(cli.FormatWarning(fmt.Sprintf("Budget exceeded for %s", budget.Category)))
	}
	return nil
}

func (m *menu) deleteBudget(ctx context.Context) error {
	category, err := m.p.PromptString(ctx, "Category to delete")
	if err != nil {
		return err
	}
	if err := m.s.engine.DeleteBudget(category); err != nil {
		return userError("Budget not deleted", err)
	}
	return m.commit(ctx, fmt.Sprintf("Budget for %s deleted", category))
}

func (m *menu) viewBudgets(context.Context) error {
	budgets := m.s.engine.Budgets().All()
	if len(budgets) == 0 {
		m.p.Println(cli.InfoStyle.Render("No budgets set."))
		return nil
	}
	if err := m.s.format.WriteBudgets(m.p.Writer(), budgets); err != nil {
		return err
	}
	for _, b := range m.s.engine.Budgets().Exceeded() {
		m.p.Println(cli.FormatWarning(fmt.Sprintf("Budget exceeded for %s", b.Category)))
	}
	return nil
}

func (m *menu) addDebt(ctx context.Context) error {
	name, err := m.p.PromptString(ctx, "Debt name")
	if err != nil {
		return err
	}
	if _, err := m.s.engine.Debts().Get(name); err == nil {
		return userError("Debt not added", fmt.Errorf("%w: debt %q", common.ErrDuplicateKey, name))
	}
	principal, err := m.p.PromptAmount(ctx, "Principal amount")
	if err != nil {
		return err
	}
	months, err := m.p.PromptInt(ctx, "Months remaining", 1)
	if err != nil {
		return err
	}
	rate, err := m.p.PromptNonNegative(ctx, "Interest rate (%)")
	if err != nil {
		return err
	}
	fees, err := m.p.PromptNonNegative(ctx, "Extra fees")
	if err != nil {
		return err
	}

	debt, err := m.s.engine.AddDebt(name, principal, months, rate, fees)
	if err != nil {
		return userError("Debt not added", err)
	}
	return m.commit(ctx, fmt.Sprintf("Added %s: %s/month", debt.Name, m.s.format.Money(debt.Installment())))
}

func (m *menu) editDebt(ctx context.Context) error {
	name, err := m.p.PromptString(ctx, "Debt to edit")
	if err != nil {
		return err
	}
	if _, err := m.s.engine.Debts().Get(name); err != nil {
		return userError("Debt not found", err)
	}

	principal, err := m.p.PromptAmount(ctx, "New principal amount")
	if err != nil {
		return err
	}
	months, err := m.p.PromptInt(ctx, "New months remaining", 1)
	if err != nil {
		return err
	}
	rate, err := m.p.PromptNonNegative(ctx, "New interest rate (%)")
	if err != nil {
		return err
	}
	fees, err := m.p.PromptNonNegative(ctx, "New extra fees")
	if err != nil {
		return err
	}

	debt, err := m.s.engine.UpdateDebt(name, ledger.DebtUpdate{
		Principal:       &principal,
		MonthsRemaining: &months,
		InterestRate:    &rate,
		ExtraFees:       &fees,
	})
	if err != nil {
		return userError("Debt not updated", err)
	}
	return m.commit(ctx, fmt.Sprintf("Updated %s: %s/month", debt.Name, m.s.format.Money(debt.Installment())))
}

func (m *menu) deleteDebt(ctx context.Context) error {
	name, err := m.p.PromptString(ctx, "Debt to delete")
	if err != nil {
		return err
	}
	if err := m.s.engine.DeleteDebt(name); err != nil {
		return userError("Debt not deleted", err)
	}
	return m.commit(ctx, fmt.Sprintf("Debt %s deleted", name))
}

func (m *menu) viewDebts(context.Context) error {
	debts := m.s.engine.Debts().All()
	if len(debts) == 0 {
		m.p.Println(cli.InfoStyle.Render("No debts recorded."))
		return nil
	}
	return m.s.format.WriteDebts(m.p.Writer(), debts)
}

func (m *menu) viewRanking(context.Context) error {
	ranking := m.s.engine.Ranking()
	if len(ranking) == 0 {
		m.p.Println(cli.InfoStyle.Render("No debts recorded."))
		return nil
	}
	return m.s.format.WriteRanking(m.p.Writer(), ranking)
}
