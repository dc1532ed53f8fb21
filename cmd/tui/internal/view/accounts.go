package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cofferapp/coffer/internal/ledger"
	"github.com/cofferapp/coffer/internal/vault"
)

type accountState int

const (
	accountStateBrowse accountState = iota
	accountStateForm
)

type AccountsModel struct {
	session *vault.Session

	state    accountState
	table    table.Model
	accounts []*ledger.Account
	form     *huh.Form

	editID string
	err    error
	status string

	formName    string
	formType    string
	formInitial string
}

func NewAccountsModel(session *vault.Session) AccountsModel {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Type", Width: 12},
		{Title: "Balance", Width: 14},
		{Title: "Initial", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	return AccountsModel{session: session, table: t}
}

func (m AccountsModel) Title() string { return "Accounts" }
func (m AccountsModel) ShortHelp() string {
	if m.state == accountStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | x: delete"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

type accountLoadMsg struct {
	accounts []*ledger.Account
	err      error
}

type accountSaveMsg struct {
	err error
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountLoadMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case accountSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = accountStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	}

	switch m.state {
	case accountStateBrowse:
		return m.updateBrowse(msg)
	case accountStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m AccountsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			return m.enterForm(nil)
		case "e":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.accounts) {
				return m.enterForm(m.accounts[idx])
			}
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.accounts) {
				return m, m.deleteCmd(m.accounts[idx].ID)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) enterForm(a *ledger.Account) (tea.Model, tea.Cmd) {
	if a == nil {
		m.editID = ""
		m.formName = ""
		m.formType = string(ledger.AccountCash)
		m.formInitial = "0"
	} else {
		m.editID = a.ID
		m.formName = a.Name
		m.formType = string(a.Type)
		m.formInitial = FormatAmount(a.InitialBalance)
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("name").
			Title("Name").
			Value(&m.formName).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name cannot be empty")
				}
				return nil
			}),

		huh.NewSelect[string]().
			Key("type").
			Title("Type").
			Options(
				huh.NewOption("Cash", string(ledger.AccountCash)),
				huh.NewOption("Bank", string(ledger.AccountBank)),
				huh.NewOption("Credit", string(ledger.AccountCredit)),
				huh.NewOption("Investment", string(ledger.AccountInvestment)),
			).
			Value(&m.formType),
	}

	// The opening balance is fixed at creation.
	if m.editID == "" {
		fields = append(fields,
			huh.NewInput().
				Key("initial").
				Title("Opening balance").
				Value(&m.formInitial),
		)
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(40).WithShowHelp(false)
	m.state = accountStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = accountStateBrowse
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
	m.formName = m.form.GetString("name")
	m.formType = m.form.GetString("type")

	if m.editID == "" {
		m.formInitial = m.form.GetString("initial")
	}

	return m, m.saveCmd()
}

func (m AccountsModel) saveCmd() tea.Cmd {
	name := strings.TrimSpace(m.formName)
	typ := ledger.AccountType(m.formType)
	editID := m.editID

	var initial int64

	if editID == "" && strings.TrimSpace(m.formInitial) != "" {
		parsed, err := parseSignedAmount(m.formInitial)
		if err != nil {
			return func() tea.Msg { return accountSaveMsg{err: err} }
		}

		initial = parsed
	}

	return func() tea.Msg {
		ctx, cancel := VaultCtx()
		defer cancel()

		err := m.session.Mutate(ctx, func(eng *ledger.Engine) error {
			if editID != "" {
				_, err := eng.UpdateAccount(editID, name, typ)
				return err
			}

			_, err := eng.CreateAccount(ledger.AccountDraft{
				Name:           name,
				Type:           typ,
				InitialBalance: initial,
			})

			return err
		})

		return accountSaveMsg{err: err}
	}
}

func (m AccountsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := VaultCtx()
		defer cancel()

		err := m.session.Mutate(ctx, func(eng *ledger.Engine) error {
			return eng.DeleteAccount(id)
		})

		return accountSaveMsg{err: err}
	}
}

func (m AccountsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		var accounts []*ledger.Account

		err := m.session.View(func(l *ledger.Ledger) error {
			accounts = l.Accounts
			return nil
		})

		return accountLoadMsg{accounts: accounts, err: err}
	}
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))

	for _, a := range m.accounts {
		rows = append(rows, table.Row{
			a.Name,
			string(a.Type),
			FormatAmount(a.Balance),
			FormatAmount(a.InitialBalance),
		})
	}

	m.table.SetRows(rows)
}

func (m AccountsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == accountStateForm && m.form != nil {
		title := "New Account"
		if m.editID != "" {
			title = "Edit Account"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
