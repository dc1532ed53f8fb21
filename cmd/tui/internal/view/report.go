package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cofferapp/coffer/internal/ledger"
	"github.com/cofferapp/coffer/internal/vault"
)

// ReportModel shows the monthly summary and expense breakdown, with
// left/right month navigation.
type ReportModel struct {
	session *vault.Session

	year  int
	month time.Month

	summary   ledger.Summary
	breakdown []ledger.CategoryTotal
	recent    []*ledger.Transaction
	total     int64
	err       error
}

const recentLimit = 5

func NewReportModel(session *vault.Session) ReportModel {
	now := time.Now()

	return ReportModel{
		session: session,
		year:    now.Year(),
		month:   now.Month(),
	}
}

func (m ReportModel) Title() string     { return "Reports" }
func (m ReportModel) ShortHelp() string { return "Esc: back | left/right: month" }

func (m ReportModel) Init() tea.Cmd {
	return m.loadCmd()
}

type reportLoadMsg struct {
	summary   ledger.Summary
	breakdown []ledger.CategoryTotal
	recent    []*ledger.Transaction
	total     int64
	err       error
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadMsg:
		m.summary = msg.summary
		m.breakdown = msg.breakdown
		m.recent = msg.recent
		m.total = msg.total
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.year, m.month = prevMonth(m.year, m.month)
			return m, m.loadCmd()
		case "right", "l":
			m.year, m.month = nextMonth(m.year, m.month)
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}

func (m ReportModel) loadCmd() tea.Cmd {
	year, month := m.year, m.month

	return func() tea.Msg {
		var result reportLoadMsg

		result.err = m.session.View(func(l *ledger.Ledger) error {
			result.summary = l.MonthlySummary(year, month)
			result.breakdown = l.ExpenseBreakdown(year, month)
			result.recent = l.Recent(recentLimit)
			result.total = l.TotalBalance()

			return nil
		})

		return result
	}
}

func (m ReportModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	var b strings.Builder

	header := fmt.Sprintf("%d-%02d", m.year, int(m.month))
	fmt.Fprintf(&b, "%s\n\n", activeStyle(header))

	fmt.Fprintf(&b, "Income:   +%s\n", FormatAmount(m.summary.Income))
	fmt.Fprintf(&b, "Expense:  -%s\n", FormatAmount(m.summary.Expense))
	fmt.Fprintf(&b, "Net:      %s\n", FormatAmount(m.summary.Net))
	fmt.Fprintf(&b, "Entries:  %d\n\n", m.summary.Count)
	fmt.Fprintf(&b, "Total balance: %s\n", FormatAmount(m.total))

	if len(m.breakdown) > 0 {
		b.WriteString("\nExpenses by category\n")

		for _, ct := range m.breakdown {
			bar := strings.Repeat("#", int(ct.Percent/5))
			fmt.Fprintf(&b, "  %-16s %10s %5.1f%% %s\n",
				ct.Category.Name, FormatAmount(ct.Amount), ct.Percent, bar)
		}
	}

	if len(m.recent) > 0 {
		b.WriteString("\nRecent transactions\n")

		for _, tx := range m.recent {
			amount := FormatAmount(tx.Amount)
			switch tx.Type {
			case ledger.TypeExpense:
				amount = "-" + amount
			case ledger.TypeIncome:
				amount = "+" + amount
			}

			fmt.Fprintf(&b, "  %s %10s  %s\n", tx.Date, amount, tx.Note)
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
