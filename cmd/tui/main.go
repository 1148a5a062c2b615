package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dindin/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/dindin/internal/config"
	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/remote"
	"github.com/MrJamesThe3rd/dindin/internal/session"
)

type model struct {
	cfg     *config.Config
	svc     *dashboard.Service
	store   *session.FileStore
	session session.Session

	currentView View
	size        tea.WindowSizeMsg
	status      string

	loginView    view.LoginModel
	accountsView view.AccountsModel
	pickerView   view.AccountPicker
	reportView   view.ReportModel
	registerView view.RegisterModel
	importView   view.ImportModel
	profileView  view.ProfileModel
}

type View int

const (
	ViewLogin      View = 0
	ViewMenu       View = 1
	ViewAccounts   View = 2
	ViewReportPick View = 3
	ViewReport     View = 4
	ViewRegister   View = 5
	ViewImport     View = 6
	ViewSignUp     View = 7
	ViewProfile    View = 8
)

func initialModel(cfg *config.Config) model {
	client := remote.New(cfg.API.BaseURL, cfg.API.Timeout, remote.WithLogger(slog.Default()))
	svc := dashboard.NewRemoteService(client)
	store := session.NewFileStore(cfg.TUI.SessionPath)

	m := model{
		cfg:         cfg,
		svc:         svc,
		store:       store,
		currentView: ViewLogin,
		loginView:   view.NewLoginModel(svc),
	}

	if sess, ok := view.RestoreSession(store); ok {
		m.session = sess
		m.currentView = ViewMenu
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}

		if m.currentView == ViewLogin && msg.String() == "ctrl+n" {
			m.status = ""
			m.currentView = ViewSignUp
			m.profileView = view.NewSignUpModel(m.svc)

			return m, m.profileView.Init()
		}

	case tea.WindowSizeMsg:
		m.size = msg

	case view.LoggedInMsg:
		m.session = msg.Session
		m.status = ""

		if err := m.store.Save(msg.Session); err != nil {
			slog.Error("failed to save session", "path", m.store.Path(), "error", err)
		}

		slog.Info("logged in", "user_id", msg.Session.User.ID)
		m.currentView = ViewMenu

		return m, nil

	case view.SessionUpdatedMsg:
		m.session = msg.Session

		if err := m.store.Save(msg.Session); err != nil {
			slog.Error("failed to save session", "path", m.store.Path(), "error", err)
		}

		return m, nil

	case view.SessionExpiredMsg:
		return m.logout("Sua sessão expirou. Entre novamente.")

	case view.AccountSelectedMsg:
		if m.currentView == ViewAccounts || m.currentView == ViewReportPick {
			m.reportView = view.NewReportModel(m.svc, m.session, msg.Account)
			m.currentView = ViewReport

			return m, tea.Batch(m.reportView.Init(), m.resize())
		}

	case view.BackMsg:
		if m.currentView == ViewSignUp {
			m.currentView = ViewLogin
			m.loginView = view.NewLoginModel(m.svc)

			return m, m.loginView.Init()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	case ViewReportPick:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.currentView = ViewMenu
			return m, nil
		}

		m.pickerView, cmd = m.pickerView.Update(msg)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewSignUp, ViewProfile:
		var newModel tea.Model
		newModel, cmd = m.profileView.Update(msg)
		m.profileView = newModel.(view.ProfileModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.currentView = ViewAccounts
		m.accountsView = view.NewAccountsModel(m.svc, m.session)

		return m, tea.Batch(m.accountsView.Init(), m.resize())
	case "2":
		m.currentView = ViewReportPick
		m.pickerView = view.NewAccountPicker(m.svc, m.session)

		return m, m.pickerView.Init()
	case "3":
		m.currentView = ViewRegister
		m.registerView = view.NewRegisterModel(m.svc, m.session)

		return m, m.registerView.Init()
	case "4":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.svc, m.session)

		return m, m.importView.Init()
	case "5":
		m.currentView = ViewProfile
		m.profileView = view.NewProfileModel(m.svc, m.session)

		return m, m.profileView.Init()
	case "l":
		return m.logout("Sessão encerrada.")
	}

	return m, nil
}

func (m model) logout(status string) (tea.Model, tea.Cmd) {
	if m.currentView == ViewReport {
		m.reportView.Close()
	}

	if err := m.store.Clear(); err != nil {
		slog.Error("failed to clear session", "path", m.store.Path(), "error", err)
	}

	m.session = session.Session{}
	m.status = status
	m.currentView = ViewLogin
	m.loginView = view.NewLoginModel(m.svc)

	return m, m.loginView.Init()
}

// resize replays the last window size so a freshly built view can lay itself out.
func (m model) resize() tea.Cmd {
	if m.size.Width == 0 {
		return nil
	}

	size := m.size

	return func() tea.Msg { return size }
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		if m.status != "" {
			return lipgloss.NewStyle().Padding(1, 2, 0).Faint(true).Render(m.status) + m.loginView.View()
		}

		return m.loginView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s · %s\n\n", m.cfg.App.Name, m.session.User.Name) +
				"1. Contas\n" +
				"2. Relatório da conta\n" +
				"3. Registrar transação\n" +
				"4. Importar extrato\n" +
				"5. Perfil\n\n" +
				"l. Sair da conta\n" +
				"q. Quit",
		)
	case ViewReportPick:
		return lipgloss.NewStyle().Padding(2).Render(m.pickerView.View())
	}

	if v := m.screen(); v != nil {
		help := lipgloss.NewStyle().Faint(true).PaddingLeft(2).Render(v.Title() + " | " + v.ShortHelp())
		return v.View() + "\n" + help
	}

	return "Unknown View"
}

func (m model) screen() view.View {
	switch m.currentView {
	case ViewAccounts:
		return m.accountsView
	case ViewReport:
		return m.reportView
	case ViewRegister:
		return m.registerView
	case ViewImport:
		return m.importView
	case ViewSignUp, ViewProfile:
		return m.profileView
	}

	return nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	f, err := tea.LogToFile(cfg.TUI.LogFile, "dindin")
	if err != nil {
		slog.Error("failed to open log file", "path", cfg.TUI.LogFile, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	slog.SetDefault(cfg.Logger(f))

	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
