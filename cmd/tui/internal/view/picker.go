package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/session"
)

// AccountSelectedMsg is emitted when the user picks an account.
type AccountSelectedMsg struct {
	Account ledger.Account
}

type pickerAccountsMsg struct {
	accounts []ledger.Account
	err      error
}

// AccountPicker is a reusable component for choosing one of the user's accounts.
type AccountPicker struct {
	CommonModel

	accounts []ledger.Account
	cursor   int
	loading  bool
	err      error
}

func NewAccountPicker(svc *dashboard.Service, sess session.Session) AccountPicker {
	return AccountPicker{CommonModel: newCommon(svc, sess), loading: true}
}

func (m AccountPicker) Init() tea.Cmd {
	svc, sess := m.svc, m.session

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		view, err := svc.Accounts(ctx, sess, "")
		return pickerAccountsMsg{accounts: view.Accounts, err: err}
	}
}

func (m AccountPicker) Update(msg tea.Msg) (AccountPicker, tea.Cmd) {
	switch msg := msg.(type) {
	case pickerAccountsMsg:
		m.loading = false
		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}

			m.err = msg.err

			return m, nil
		}

		m.accounts = msg.accounts
		m.cursor = 0

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < len(m.accounts)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			if len(m.accounts) == 0 {
				return m, nil
			}

			account := m.accounts[m.cursor]

			return m, func() tea.Msg {
				return AccountSelectedMsg{Account: account}
			}
		}
	}

	return m, nil
}

func (m AccountPicker) View() string {
	if m.loading {
		return "Carregando contas..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back)"
	}

	if len(m.accounts) == 0 {
		return "Nenhuma conta cadastrada.\n\n(Esc to back)"
	}

	var b strings.Builder

	b.WriteString("Select Account:\n\n")

	for i, a := range m.accounts {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s (%s)  %s\n", cursor, a.Name, a.Institution, FormatMoney(a.Balance))
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	return b.String()
}
