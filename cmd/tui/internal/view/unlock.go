package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cofferapp/coffer/internal/vault"
)

// UnlockModel is the gate in front of everything else. It shows a setup
// form when no vault exists yet and a password prompt otherwise.
type UnlockModel struct {
	session *vault.Session

	form        *huh.Form
	initialized bool
	err         error

	password string
	confirm  string
}

func NewUnlockModel(session *vault.Session) UnlockModel {
	ctx, cancel := VaultCtx()
	defer cancel()

	initialized, err := session.Exists(ctx)

	m := UnlockModel{
		session:     session,
		initialized: initialized,
		err:         err,
	}
	m.form = m.newForm()

	return m
}

func (m UnlockModel) Title() string {
	if m.initialized {
		return "Unlock Vault"
	}

	return "Create Vault"
}

func (m UnlockModel) ShortHelp() string { return "Enter: submit | Ctrl+C: quit" }

func (m UnlockModel) newForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Key("password").
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.password).
			Validate(func(s string) error {
				if len(s) < vault.MinPasswordLen {
					return fmt.Errorf("at least %d characters", vault.MinPasswordLen)
				}
				return nil
			}),
	}

	if !m.initialized {
		fields = append(fields,
			huh.NewInput().
				Key("confirm").
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.confirm),
		)
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(40).WithShowHelp(false)
}

func (m UnlockModel) Init() tea.Cmd {
	return m.form.Init()
}

type unlockResultMsg struct {
	err error
}

func (m UnlockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(unlockResultMsg); ok {
		if result.err != nil {
			m.err = result.err
			m.password = ""
			m.confirm = ""
			m.form = m.newForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return UnlockedMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// The form wrote into an older model copy, so read back by key.
	m.password = m.form.GetString("password")
	if !m.initialized {
		m.confirm = m.form.GetString("confirm")
	}

	if !m.initialized && m.password != m.confirm {
		m.err = fmt.Errorf("passwords do not match")
		m.password = ""
		m.confirm = ""
		m.form = m.newForm()

		return m, m.form.Init()
	}

	return m, m.submitCmd()
}

func (m UnlockModel) submitCmd() tea.Cmd {
	password := m.password
	initialized := m.initialized

	return func() tea.Msg {
		ctx, cancel := VaultCtx()
		defer cancel()

		if initialized {
			return unlockResultMsg{err: m.session.Unlock(ctx, password)}
		}

		return unlockResultMsg{err: m.session.Setup(ctx, password)}
	}
}

func (m UnlockModel) View() string {
	header := m.Title()

	if m.err != nil {
		header += "\n\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render(fmt.Sprintf("Error: %v", m.err))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		header + "\n\n" + m.form.View(),
	)
}
