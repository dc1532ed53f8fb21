package view

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cofferapp/coffer/internal/export"
	"github.com/cofferapp/coffer/internal/ledger"
	"github.com/cofferapp/coffer/internal/vault"
)

// ExportModel writes a plaintext JSON backup of the vault to disk.
type ExportModel struct {
	session *vault.Session

	form *huh.Form
	done bool
	err  error

	path string
}

func NewExportModel(session *vault.Session) ExportModel {
	cwd, _ := os.Getwd()

	m := ExportModel{
		session: session,
		path:    filepath.Join(cwd, export.Filename(time.Now())),
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Write backup to").
				Value(&m.path),
		),
	).WithWidth(60).WithShowHelp(false)

	return m
}

func (m ExportModel) Title() string { return "Export Backup" }

func (m ExportModel) ShortHelp() string {
	if m.done {
		return "Esc: back"
	}

	return "Enter: export | Esc: cancel"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

type exportDoneMsg struct {
	err error
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case exportDoneMsg:
		m.done = true
		m.err = msg.err

		return m, nil
	}

	if m.done {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	// The form wrote into an older model copy, so read back by key.
	m.path = m.form.GetString("path")

	return m, m.exportCmd()
}

func (m ExportModel) exportCmd() tea.Cmd {
	path := m.path

	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer f.Close()

		err = m.session.View(func(l *ledger.Ledger) error {
			return export.Write(f, l, time.Now())
		})

		return exportDoneMsg{err: err}
	}
}

func (m ExportModel) View() string {
	if m.done {
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
		}

		return lipgloss.NewStyle().Padding(2).Render("Backup written to " + m.path)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		"Export an unencrypted JSON backup\n\n" + m.form.View(),
	)
}
