package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render("📒 tally"),
		m.renderTabs(),
		"",
	}

	switch {
	case m.lastError != nil:
		sections = append(sections, m.theme.StatusError.Render("Error: "+m.lastError.Error()))
	case !m.loaded:
		sections = append(sections, m.theme.Subtitle.Render("Loading ledger..."))
	case m.tab == TabSummary:
		sections = append(sections, m.renderSummary())
	default:
		sections = append(sections, m.renderTable())
	}

	if m.tab == TabTransactions && (m.filtering || m.filter.Value() != "") {
		sections = append(sections, m.filter.View())
	}

	sections = append(sections, "", m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := m.theme.Tab
		if t == m.tab {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderTable() string {
	t := m.tables[m.tab]
	if len(t.Rows()) == 0 {
		return m.theme.Subtitle.Render(m.emptyMessage())
	}
	return t.View()
}

func (m Model) emptyMessage() string {
	switch m.tab {
	case TabTransactions:
		if m.filter.Value() != "" {
			return fmt.Sprintf("No transactions match %q.", m.filter.Value())
		}
		return "No transactions recorded."
	case TabBudgets:
		return "No budgets set."
	case TabDebts:
		return "No debts recorded."
	default:
		return ""
	}
}

func (m Model) renderSummary() string {
	d := m.dashboard

	net := m.theme.StatusSuccess.Render(m.format.Money(d.Net))
	if d.Net < 0 {
		net = m.theme.StatusError.Render(m.format.Money(d.Net))
	}

	lines := []string{
		"Total income:   " + m.theme.Income.Render(m.format.Money(d.TotalIncome)),
		"Total expense:  " + m.theme.Expense.Render(m.format.Money(d.TotalExpense)),
		"Net balance:    " + net,
		"",
		fmt.Sprintf("Transactions: %d  Budgets: %d  Debts: %d",
			len(d.Transactions), len(d.Budgets), len(d.Debts)),
	}

	var exceeded []string
	for _, b := range d.Budgets {
		if b.Exceeded {
			exceeded = append(exceeded, b.Category)
		}
	}
	if len(exceeded) > 0 {
		lines = append(lines, m.theme.StatusWarning.Render("Over budget: "+strings.Join(exceeded, ", ")))
	}
	if top := d.Ranking.Top(); top != nil {
		lines = append(lines, fmt.Sprintf("Pay first: %s (%s/month)", top.Debt.Name, m.format.Money(top.Installment)))
	}

	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}
