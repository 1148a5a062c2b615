package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/session"
	"github.com/MrJamesThe3rd/dindin/internal/statement"
)

const importTimeout = 2 * time.Minute

// autoProfile lets the parser detect the bank from the header row.
const autoProfile = ""

type importState int

const (
	importStateAccount importState = iota
	importStateProfileSelect
	importStateFilePick
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel

	state          importState
	picker         AccountPicker
	account        ledger.Account
	filePicker     filepicker.Model
	profileOptions []string
	profileCursor  int

	result dashboard.ImportResult
	status string
	err    error
}

func NewImportModel(svc *dashboard.Service, sess session.Session) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		CommonModel:    newCommon(svc, sess),
		picker:         NewAccountPicker(svc, sess),
		filePicker:     fp,
		profileOptions: append([]string{autoProfile}, statement.Profiles()...),
	}
}

func (m ImportModel) Title() string { return "Importar extrato" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateProfileSelect {
			return m.updateProfileSelect(msg)
		}

	case AccountSelectedMsg:
		m.account = msg.Account
		m.state = importStateProfileSelect

		return m, nil

	case importResultMsg:
		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}
		}

		m.state = importStateResult
		m.result = msg.result
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			if n := len(msg.result.Imported); n > 0 {
				m.status += fmt.Sprintf("\n%d transactions were imported before the failure.", n)
			}

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d transactions, skipped %d already registered.", len(msg.result.Imported), msg.result.Skipped)

		return m, nil
	}

	switch m.state {
	case importStateAccount:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	case importStateFilePick:
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = importStateImporting
			m.status = fmt.Sprintf("Importing from %s...", path)

			return m, m.importCmd(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateProfileSelect:
		m.state = importStateAccount
		return m, nil
	case importStateFilePick:
		m.state = importStateProfileSelect
		return m, nil
	case importStateResult:
		m.state = importStateProfileSelect
		m.err = nil
		m.status = ""
		m.result = dashboard.ImportResult{}

		return m, nil
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateProfileSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.profileCursor > 0 {
			m.profileCursor--
		}
	case tea.KeyDown:
		if m.profileCursor < len(m.profileOptions)-1 {
			m.profileCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) selectedProfile() string {
	return m.profileOptions[m.profileCursor]
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateAccount:
		return lipgloss.NewStyle().Padding(2).Render(m.picker.View())
	case importStateProfileSelect:
		return m.viewProfileSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func profileLabel(name string) string {
	if name == autoProfile {
		return "Detectar automaticamente"
	}

	return name
}

func (m ImportModel) viewProfileSelect() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Conta: %s\n\nSelect Bank:\n\n", m.account.Name)

	for i, name := range m.profileOptions {
		cursor := " "
		if i == m.profileCursor {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, profileLabel(name))
	}

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s", profileLabel(m.selectedProfile()), m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	details := mutedStyle.Render(fmt.Sprintf("Formato: %s | Codificação: %s", m.result.Profile, m.result.Charset))

	return style.Render(successStyle.Render(m.status) + "\n" + details + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	result dashboard.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	svc, sess, accountID, profile := m.svc, m.session, m.account.ID, m.selectedProfile()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.ImportStatement(ctx, sess, accountID, f, profile)

		return importResultMsg{result: result, err: err}
	}
}
