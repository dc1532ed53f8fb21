package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cofferapp/coffer/internal/importer"
	"github.com/cofferapp/coffer/internal/importer/generic"
	"github.com/cofferapp/coffer/internal/ledger"
	"github.com/cofferapp/coffer/internal/vault"
)

type importState int

const (
	importStateFilePick importState = iota
	importStatePreview
	importStateResult
)

type ImportModel struct {
	session   *vault.Session
	importSvc *importer.Service

	state      importState
	filePicker filepicker.Model
	preview    table.Model
	rows       []generic.Row

	status string
	err    error
}

func NewImportModel(session *vault.Session, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15
	fp.AutoHeight = false

	return ImportModel{
		session:    session,
		importSvc:  impSvc,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: confirm import | Esc: cancel"
	case importStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: select file"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

type previewMsg struct {
	rows []generic.Row
	err  error
}

type importDoneMsg struct {
	imported int
	err      error
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == importStateFilePick {
				return m, Back
			}

			m.state = importStateFilePick
			m.err = nil
			m.status = ""

			return m, m.filePicker.Init()
		}

		if m.state == importStatePreview && msg.Type == tea.KeyEnter {
			return m, m.commitCmd()
		}

	case previewMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err

			return m, nil
		}

		if len(msg.rows) == 0 {
			m.state = importStateResult
			m.status = "No usable rows found in that file."

			return m, nil
		}

		m.rows = msg.rows
		m.state = importStatePreview
		m.refreshPreview()

		return m, nil

	case importDoneMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err == nil {
			m.status = fmt.Sprintf("Imported %d transactions.", msg.imported)
		}

		return m, nil
	}

	if m.state == importStateFilePick {
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if ok, path := m.filePicker.DidSelectFile(msg); ok {
			return m, m.previewCmd(path)
		}

		return m, cmd
	}

	if m.state == importStatePreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		rows, err := m.importSvc.Preview(f)

		return previewMsg{rows: rows, err: err}
	}
}

func (m ImportModel) commitCmd() tea.Cmd {
	rows := m.rows

	return func() tea.Msg {
		ctx, cancel := VaultCtx()
		defer cancel()

		var imported int

		err := m.session.Mutate(ctx, func(eng *ledger.Engine) error {
			var err error

			imported, err = m.importSvc.Commit(rows, eng)

			return err
		})

		return importDoneMsg{imported: imported, err: err}
	}
}

func (m *ImportModel) refreshPreview() {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Note", Width: 30},
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, row := range m.rows {
		rows = append(rows, table.Row{
			row.Date.String(),
			string(row.Type),
			FormatAmount(row.Amount),
			row.CategoryName,
			row.Note,
		})
	}

	m.preview = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1, 2).Render(
			"Pick a CSV statement\n\n" + m.filePicker.View(),
		)

	case importStatePreview:
		header := fmt.Sprintf("%d rows parsed. Enter imports them into your first account.", len(m.rows))

		return lipgloss.NewStyle().Padding(1, 2).Render(
			header + "\n\n" + m.preview.View(),
		)

	case importStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
		}

		return lipgloss.NewStyle().Padding(2).Render(m.status)
	}

	return ""
}
