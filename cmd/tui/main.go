package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/cofferapp/coffer/cmd/tui/internal/view"
	"github.com/cofferapp/coffer/internal/config"
	"github.com/cofferapp/coffer/internal/importer"
	"github.com/cofferapp/coffer/internal/vault"
)

type model struct {
	session   *vault.Session
	importSvc *importer.Service

	currentView View

	unlockView       view.UnlockModel
	transactionsView view.TransactionsModel
	accountsView     view.AccountsModel
	categoriesView   view.CategoriesModel
	reportView       view.ReportModel
	importView       view.ImportModel
	exportView       view.ExportModel
}

type View int

const (
	ViewUnlock       View = 0
	ViewMenu         View = 1
	ViewTransactions View = 2
	ViewAccounts     View = 3
	ViewCategories   View = 4
	ViewReports      View = 5
	ViewImport       View = 6
	ViewExport       View = 7
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	vaultPath, err := cfg.VaultPath()
	if err != nil {
		slog.Error("failed to resolve vault path", "error", err)
		os.Exit(1)
	}

	session := vault.NewSession(vault.NewFileTransport(vaultPath))

	return model{
		session:     session,
		importSvc:   importer.NewService(),
		currentView: ViewUnlock,
		unlockView:  view.NewUnlockModel(session),
	}
}

func (m model) Init() tea.Cmd {
	return m.unlockView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.session)

				return m, m.transactionsView.Init()
			case "2":
				m.currentView = ViewAccounts
				m.accountsView = view.NewAccountsModel(m.session)

				return m, m.accountsView.Init()
			case "3":
				m.currentView = ViewCategories
				m.categoriesView = view.NewCategoriesModel(m.session)

				return m, m.categoriesView.Init()
			case "4":
				m.currentView = ViewReports
				m.reportView = view.NewReportModel(m.session)

				return m, m.reportView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.session, m.importSvc)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.session)

				return m, m.exportView.Init()
			case "l":
				m.session.Lock()
				m.currentView = ViewUnlock
				m.unlockView = view.NewUnlockModel(m.session)

				return m, m.unlockView.Init()
			}
		}

	case view.UnlockedMsg:
		m.currentView = ViewMenu
		return m, nil

	case view.LockMsg:
		m.session.Lock()
		m.currentView = ViewUnlock
		m.unlockView = view.NewUnlockModel(m.session)

		return m, m.unlockView.Init()

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewUnlock:
		var newModel tea.Model
		newModel, cmd = m.unlockView.Update(msg)
		m.unlockView = newModel.(view.UnlockModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewCategories:
		var newModel tea.Model
		newModel, cmd = m.categoriesView.Update(msg)
		m.categoriesView = newModel.(view.CategoriesModel)
	case ViewReports:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewUnlock:
		return m.unlockView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Coffer\n\n" +
				"1. Transactions\n" +
				"2. Accounts\n" +
				"3. Categories\n" +
				"4. Reports\n" +
				"5. Import CSV\n" +
				"6. Export Backup\n\n" +
				"l. Lock Vault\n" +
				"q. Quit",
		)
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewAccounts:
		return m.accountsView.View()
	case ViewCategories:
		return m.categoriesView.View()
	case ViewReports:
		return m.reportView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
