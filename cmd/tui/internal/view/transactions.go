package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/cofferapp/coffer/internal/ledger"
	"github.com/cofferapp/coffer/internal/vault"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateForm
)

var txTypeFilters = []ledger.TransactionType{"", ledger.TypeIncome, ledger.TypeExpense, ledger.TypeTransfer}

type TransactionsModel struct {
	session *vault.Session

	state txState
	table table.Model
	txs   []*ledger.Transaction
	form  *huh.Form

	typeFilterIdx int
	editID        string

	err    error
	status string

	// Form bindings
	formType     string
	formDate     string
	formAmount   string
	formAccount  string
	formToAcct   string
	formCategory string
	formNote     string
}

func NewTransactionsModel(session *vault.Session) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Account", Width: 16},
		{Title: "Category", Width: 16},
		{Title: "Note", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TransactionsModel{session: session, table: t}
}

func (m TransactionsModel) Title() string { return "Transactions" }
func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | x: delete | t: type filter | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

type txLoadMsg struct {
	txs []*ledger.Transaction
	err error
}

type txSaveMsg struct {
	err error
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txLoadMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case txSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case txStateBrowse:
		return m.updateBrowse(msg)
	case txStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(txTypeFilters)
			return m, m.loadCmd()
		case "n":
			return m.enterForm(nil)
		case "e":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.txs) {
				return m.enterForm(m.txs[idx])
			}
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.txs) {
				return m, m.deleteCmd(m.txs[idx].ID)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterForm(tx *ledger.Transaction) (tea.Model, tea.Cmd) {
	if tx == nil {
		m.editID = ""
		m.formType = string(ledger.TypeExpense)
		m.formDate = ledger.Today().String()
		m.formAmount = ""
		m.formAccount = ""
		m.formToAcct = ""
		m.formCategory = ""
		m.formNote = ""
	} else {
		m.editID = tx.ID
		m.formType = string(tx.Type)
		m.formDate = tx.Date.String()
		m.formAmount = FormatAmount(tx.Amount)
		m.formAccount = tx.AccountID
		m.formToAcct = tx.ToAccountID
		m.formCategory = tx.CategoryID
		m.formNote = tx.Note
	}

	var accountOpts, categoryOpts []huh.Option[string]

	err := m.session.View(func(l *ledger.Ledger) error {
		for _, a := range l.Accounts {
			accountOpts = append(accountOpts, huh.NewOption(a.Name, a.ID))
		}

		categoryOpts = append(categoryOpts, huh.NewOption("(none)", ""))
		for _, c := range l.Categories {
			label := fmt.Sprintf("%s (%s)", c.Name, c.Kind)
			categoryOpts = append(categoryOpts, huh.NewOption(label, c.ID))
		}

		return nil
	})
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}

	toAccountOpts := append([]huh.Option[string]{huh.NewOption("(none)", "")}, accountOpts...)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(ledger.TypeExpense)),
					huh.NewOption("Income", string(ledger.TypeIncome)),
					huh.NewOption("Transfer", string(ledger.TypeTransfer)),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(func(s string) error {
					_, err := ledger.ParseDate(s)
					return err
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12.34").
				Value(&m.formAmount).
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),

			huh.NewSelect[string]().
				Key("account").
				Title("Account").
				Options(accountOpts...).
				Value(&m.formAccount),

			huh.NewSelect[string]().
				Key("toAccount").
				Title("To account (transfers)").
				Options(toAccountOpts...).
				Value(&m.formToAcct),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOpts...).
				Value(&m.formCategory),

			huh.NewInput().
				Key("note").
				Title("Note").
				Value(&m.formNote),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// The form wrote into an older model copy, so read back by key.
	m.formType = m.form.GetString("type")
	m.formDate = m.form.GetString("date")
	m.formAmount = m.form.GetString("amount")
	m.formAccount = m.form.GetString("account")
	m.formToAcct = m.form.GetString("toAccount")
	m.formCategory = m.form.GetString("category")
	m.formNote = m.form.GetString("note")

	return m, m.saveCmd()
}

func (m TransactionsModel) saveCmd() tea.Cmd {
	amount, err := parseAmount(m.formAmount)
	if err != nil {
		return func() tea.Msg { return txSaveMsg{err: err} }
	}

	date, err := ledger.ParseDate(m.formDate)
	if err != nil {
		return func() tea.Msg { return txSaveMsg{err: err} }
	}

	draft := ledger.TransactionDraft{
		Type:        ledger.TransactionType(m.formType),
		Date:        date,
		AccountID:   m.formAccount,
		ToAccountID: m.formToAcct,
		Amount:      amount,
		CategoryID:  m.formCategory,
		Note:        strings.TrimSpace(m.formNote),
	}

	editID := m.editID

	return func() tea.Msg {
		ctx, cancel := VaultCtx()
		defer cancel()

		err := m.session.Mutate(ctx, func(eng *ledger.Engine) error {
			if editID != "" {
				_, err := eng.UpdateTransaction(editID, draft)
				return err
			}

			_, err := eng.CreateTransaction(draft)

			return err
		})

		return txSaveMsg{err: err}
	}
}

func (m TransactionsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := VaultCtx()
		defer cancel()

		err := m.session.Mutate(ctx, func(eng *ledger.Engine) error {
			return eng.DeleteTransaction(id)
		})

		return txSaveMsg{err: err}
	}
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	filter := ledger.Filter{Type: txTypeFilters[m.typeFilterIdx]}

	return func() tea.Msg {
		var txs []*ledger.Transaction

		err := m.session.View(func(l *ledger.Ledger) error {
			txs = l.List(filter)
			return nil
		})

		return txLoadMsg{txs: txs, err: err}
	}
}

func (m *TransactionsModel) refreshTable() {
	names := map[string]string{}

	_ = m.session.View(func(l *ledger.Ledger) error {
		for _, a := range l.Accounts {
			names[a.ID] = a.Name
		}

		for _, c := range l.Categories {
			names[c.ID] = c.Name
		}

		return nil
	})

	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		account := names[tx.AccountID]
		if tx.Type == ledger.TypeTransfer {
			account += " -> " + names[tx.ToAccountID]
		}

		amount := FormatAmount(tx.Amount)
		switch tx.Type {
		case ledger.TypeExpense:
			amount = "-" + amount
		case ledger.TypeIncome:
			amount = "+" + amount
		}

		rows = append(rows, table.Row{
			tx.Date.String(),
			string(tx.Type),
			amount,
			account,
			names[tx.CategoryID],
			tx.Note,
		})
	}

	m.table.SetRows(rows)
}

func (m TransactionsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	label := "All"
	if f := txTypeFilters[m.typeFilterIdx]; f != "" {
		label = string(f)
	}

	header := fmt.Sprintf("Filter: [t] Type: %s", activeStyle(label))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == txStateForm && m.form != nil {
		title := "New Transaction"
		if m.editID != "" {
			title = "Edit Transaction"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// parseAmount turns a decimal string like "12.34" into cents.
func parseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount")
	}

	if d.IsNegative() || d.IsZero() {
		return 0, fmt.Errorf("amount must be positive")
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// parseSignedAmount allows zero and negative values, for opening balances.
func parseSignedAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount")
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
