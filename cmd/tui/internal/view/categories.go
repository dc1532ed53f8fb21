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

type categoryState int

const (
	categoryStateBrowse categoryState = iota
	categoryStateForm
)

type CategoriesModel struct {
	session *vault.Session

	state      categoryState
	table      table.Model
	categories []*ledger.Category
	form       *huh.Form

	editID string
	err    error
	status string

	formName  string
	formKind  string
	formColor string
}

func NewCategoriesModel(session *vault.Session) CategoriesModel {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Kind", Width: 10},
		{Title: "Color", Width: 10},
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

	return CategoriesModel{session: session, table: t}
}

func (m CategoriesModel) Title() string { return "Categories" }
func (m CategoriesModel) ShortHelp() string {
	if m.state == categoryStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: edit | x: delete"
}

func (m CategoriesModel) Init() tea.Cmd {
	return m.loadCmd()
}

type categoryLoadMsg struct {
	categories []*ledger.Category
	err        error
}

type categorySaveMsg struct {
	err error
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoryLoadMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.categories = msg.categories
		m.refreshTable()

		return m, nil

	case categorySaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = categoryStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	}

	switch m.state {
	case categoryStateBrowse:
		return m.updateBrowse(msg)
	case categoryStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m CategoriesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			return m.enterForm(nil)
		case "e":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.categories) {
				return m.enterForm(m.categories[idx])
			}
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.categories) {
				return m, m.deleteCmd(m.categories[idx].ID)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CategoriesModel) enterForm(c *ledger.Category) (tea.Model, tea.Cmd) {
	if c == nil {
		m.editID = ""
		m.formName = ""
		m.formKind = string(ledger.KindExpense)
		m.formColor = "#3498db"
	} else {
		m.editID = c.ID
		m.formName = c.Name
		m.formKind = string(c.Kind)
		m.formColor = c.Color
	}

	m.form = huh.NewForm(
		huh.NewGroup(
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
				Key("kind").
				Title("Kind").
				Options(
					huh.NewOption("Expense", string(ledger.KindExpense)),
					huh.NewOption("Income", string(ledger.KindIncome)),
				).
				Value(&m.formKind),

			huh.NewInput().
				Key("color").
				Title("Color").
				Placeholder("#rrggbb").
				Value(&m.formColor),
		),
	).WithWidth(40).WithShowHelp(false)

	m.state = categoryStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m CategoriesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = categoryStateBrowse
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
	m.formKind = m.form.GetString("kind")
	m.formColor = m.form.GetString("color")

	return m, m.saveCmd()
}

func (m CategoriesModel) saveCmd() tea.Cmd {
	draft := ledger.CategoryDraft{
		Name:  strings.TrimSpace(m.formName),
		Kind:  ledger.CategoryKind(m.formKind),
		Color: strings.TrimSpace(m.formColor),
	}
	editID := m.editID

	return func() tea.Msg {
		ctx, cancel := VaultCtx()
		defer cancel()

		err := m.session.Mutate(ctx, func(eng *ledger.Engine) error {
			if editID != "" {
				_, err := eng.UpdateCategory(editID, draft)
				return err
			}

			_, err := eng.CreateCategory(draft)

			return err
		})

		return categorySaveMsg{err: err}
	}
}

func (m CategoriesModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := VaultCtx()
		defer cancel()

		err := m.session.Mutate(ctx, func(eng *ledger.Engine) error {
			return eng.DeleteCategory(id)
		})

		return categorySaveMsg{err: err}
	}
}

func (m CategoriesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		var categories []*ledger.Category

		err := m.session.View(func(l *ledger.Ledger) error {
			categories = l.Categories
			return nil
		})

		return categoryLoadMsg{categories: categories, err: err}
	}
}

func (m *CategoriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.categories))

	for _, c := range m.categories {
		rows = append(rows, table.Row{c.Name, string(c.Kind), c.Color})
	}

	m.table.SetRows(rows)
}

func (m CategoriesModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == categoryStateForm && m.form != nil {
		title := "New Category"
		if m.editID != "" {
			title = "Edit Category"
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
