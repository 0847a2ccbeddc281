// Package tui implements the interactive ledger dashboard.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/tui/themes"
)

// Tab identifies one of the dashboard views.
type Tab int

// Dashboard views, in tab order.
const (
	TabTransactions Tab = iota
	TabBudgets
	TabDebts
	TabSummary
	tabCount
)

var tabNames = [tabCount]string{"Transactions", "Budgets", "Debts", "Summary"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabNames[t]
}

// chrome is the number of lines used by the title, tabs, filter and help.
const chrome = 8

// Model holds the dashboard state.
type Model struct {
	ctx       context.Context
	lastError error
	theme     themes.Theme
	config    Config
	format    cli.Formatter
	keymap    KeyMap
	help      help.Model
	filter    textinput.Model
	dashboard engine.Dashboard
	tables    [TabSummary]table.Model
	width     int
	height    int
	tab       Tab
	filtering bool
	loaded    bool
	quitting  bool
}

// New creates a dashboard model. The ledger is fetched by the configured
// loader when the program starts.
func New(opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "category"
	filter.CharLimit = model.MaxDescriptionLength

	m := Model{
		ctx:    context.Background(),
		theme:  cfg.Theme,
		config: cfg,
		format: cli.NewFormatter(cfg.Currency),
		keymap: DefaultKeyMap(),
		help:   help.New(),
		filter: filter,
		width:  cfg.Width,
		height: cfg.Height,
	}

	m.tables[TabTransactions] = m.newTable([]table.Column{
		{Title: "#", Width: 4},
		{Title: "Date", Width: 19},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 30},
	})
	m.tables[TabBudgets] = m.newTable([]table.Column{
		{Title: "Category", Width: 16},
		{Title: "Limit", Width: 14},
		{Title: "Spent", Width: 14},
		{Title: "Remaining", Width: 14},
		{Title: "Status", Width: 9},
	})
	m.tables[TabDebts] = m.newTable([]table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Name", Width: 16},
		{Title: "Installment", Width: 14},
		{Title: "Total Due", Width: 14},
		{Title: "Paid", Width: 14},
		{Title: "Remaining", Width: 14},
		{Title: "Months", Width: 7},
	})
	return m
}

// WithDashboard returns a copy of m showing d, for callers that already
// hold the ledger in memory.
func (m Model) WithDashboard(d engine.Dashboard) Model {
	m.dashboard = d
	m.loaded = true
	m.refreshRows()
	return m
}

func (m Model) newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chrome, 3)),
	)

	styles := table.DefaultStyles()
	styles.Header = m.theme.TableHeader
	styles.Selected = m.theme.TableSelected
	t.SetStyles(styles)
	return t
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for i := range m.tables {
			m.tables[i].SetHeight(max(m.height-chrome, 3))
		}
		return m, nil

	case dashboardLoadedMsg:
		m.dashboard = msg.dashboard
		m.loaded = true
		m.lastError = nil
		m.refreshRows()
		return m, nil

	case errorMsg:
		m.lastError = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.load()

	case key.Matches(msg, m.keymap.Filter) && m.tab == TabTransactions:
		m.filtering = true
		return m, m.filter.Focus()

	case key.Matches(msg, m.keymap.ClearFilter) && m.filter.Value() != "":
		m.filter.SetValue("")
		m.refreshRows()
		return m, nil
	}

	if m.tab < TabSummary {
		var cmd tea.Cmd
		m.tables[m.tab], cmd = m.tables[m.tab].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Apply):
		m.filtering = false
		m.filter.Blur()
		return m, nil

	case key.Matches(msg, m.keymap.ClearFilter):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refreshRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refreshRows()
	return m, cmd
}

// refreshRows rebuilds every table from the current dashboard.
func (m *Model) refreshRows() {
	m.tables[TabTransactions].SetRows(m.transactionRows())

	budgetRows := make([]table.Row, 0, len(m.dashboard.Budgets))
	for _, b := range m.dashboard.Budgets {
		status := "ok"
		if b.Exceeded {
			status = "EXCEEDED"
		}
		budgetRows = append(budgetRows, table.Row{
			b.Category,
			m.format.Money(b.Limit),
			m.format.Money(b.Spent),
			m.format.Money(b.Remaining()),
			status,
		})
	}
	m.tables[TabBudgets].SetRows(budgetRows)

	debtRows := make([]table.Row, 0, len(m.dashboard.Ranking))
	for _, e := range m.dashboard.Ranking {
		debtRows = append(debtRows, table.Row{
			strconv.Itoa(e.Rank),
			e.Debt.Name,
			m.format.Money(e.Installment),
			m.format.Money(e.Debt.TotalDue()),
			m.format.Money(e.Debt.Paid),
			m.format.Money(e.Debt.Remaining()),
			strconv.Itoa(e.Debt.MonthsRemaining),
		})
	}
	m.tables[TabDebts].SetRows(debtRows)
}

// transactionRows lists transactions newest first. Row numbers keep their
// unfiltered position so they match "tx delete".
func (m Model) transactionRows() []table.Row {
	needle := string(model.NormalizeKey(strings.TrimSpace(m.filter.Value())))

	rows := make([]table.Row, 0, len(m.dashboard.Transactions))
	for i, tx := range m.dashboard.Transactions {
		if needle != "" && !strings.Contains(string(tx.Key()), needle) {
			continue
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			tx.Timestamp.Format(model.TimestampLayout),
			string(tx.Kind),
			tx.Category,
			m.format.Money(tx.Amount),
			tx.Description,
		})
	}
	return rows
}

// Tab returns the active view.
func (m Model) Tab() Tab {
	return m.tab
}

// Filter returns the current category filter.
func (m Model) Filter() string {
	return m.filter.Value()
}
