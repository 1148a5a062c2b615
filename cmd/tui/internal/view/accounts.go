package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/export"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/session"
)

type accountsState int

const (
	accountsStateBrowse accountsState = iota
	accountsStateSearch
	accountsStateForm
	accountsStateConfirm
)

type accountFields struct {
	name        string
	institution string
	balance     string
}

type AccountsModel struct {
	CommonModel

	state  accountsState
	table  table.Model
	search textinput.Model
	form   *huh.Form
	fields *accountFields
	// editing is the account the form edits; zero creates a new one.
	editing int64
	confirm *bool
	target  ledger.Account

	view    dashboard.AccountsView
	loading bool
	err     error
	status  string
}

func NewAccountsModel(svc *dashboard.Service, sess session.Session) AccountsModel {
	columns := []table.Column{
		{Title: "Conta", Width: 25},
		{Title: "Instituição", Width: 20},
		{Title: "Saldo", Width: 18},
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

	si := textinput.New()
	si.Placeholder = "nome ou instituição"
	si.Prompt = "/ "
	si.Width = 30

	return AccountsModel{
		CommonModel: newCommon(svc, sess),
		table:       t,
		search:      si,
		fields:      &accountFields{},
		confirm:     new(false),
		loading:     true,
	}
}

func (m AccountsModel) Title() string { return "Contas" }

func (m AccountsModel) ShortHelp() string {
	switch m.state {
	case accountsStateSearch:
		return "Enter: apply | Esc: cancel"
	case accountsStateForm, accountsStateConfirm:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: report | /: search | n: new | e: edit | D: delete | r: refresh"
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadAccountsMsg:
		m.loading = false
		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}

			m.err = msg.err

			return m, nil
		}

		m.err = nil
		m.view = msg.view
		m.refreshTable()

		return m, nil

	case accountSavedMsg:
		m.closeForm()

		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}

			m.status = fmt.Sprintf("Error saving account: %v", msg.err)

			return m, nil
		}

		if msg.created {
			m.status = fmt.Sprintf("Conta %q criada.", msg.name)
		} else {
			m.status = fmt.Sprintf("Conta %q atualizada.", msg.name)
		}

		return m, m.loadCmd()

	case accountDeletedMsg:
		m.closeForm()

		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}

			m.status = fmt.Sprintf("Error deleting account: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Conta %q excluída.", msg.name)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	switch m.state {
	case accountsStateSearch:
		return m.updateSearch(msg)
	case accountsStateForm:
		return m.updateForm(msg)
	case accountsStateConfirm:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m AccountsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			m.state = accountsStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "n":
			return m.enterForm(ledger.Account{})
		case "e":
			if account, ok := m.selected(); ok {
				return m.enterForm(account)
			}
		case "D":
			if account, ok := m.selected(); ok {
				return m.enterConfirm(account)
			}
		case "enter":
			account, ok := m.selected()
			if !ok {
				return m, nil
			}

			return m, func() tea.Msg { return AccountSelectedMsg{Account: account} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = accountsStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case tea.KeyEnter:
			m.state = accountsStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m AccountsModel) selected() (ledger.Account, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.view.Accounts) {
		return ledger.Account{}, false
	}

	return m.view.Accounts[idx], true
}

func (m *AccountsModel) closeForm() {
	m.state = accountsStateBrowse
	m.form = nil
	m.table.Focus()
}

// enterForm opens the account form, prefilled when account has an id.
func (m AccountsModel) enterForm(account ledger.Account) (tea.Model, tea.Cmd) {
	*m.fields = accountFields{balance: "0"}
	m.editing = account.ID
	balanceTitle := "Saldo inicial"

	if account.ID != 0 {
		*m.fields = accountFields{
			name:        account.Name,
			institution: account.Institution,
			balance:     export.Number(account.Balance),
		}
		balanceTitle = "Saldo"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Nome").
				Value(&m.fields.name).
				Validate(notBlank("nome")),

			huh.NewInput().
				Key("institution").
				Title("Instituição").
				Value(&m.fields.institution).
				Validate(notBlank("instituição")),

			huh.NewInput().
				Key("balance").
				Title(balanceTitle).
				Placeholder("0,00").
				Value(&m.fields.balance).
				Validate(func(s string) error {
					_, err := parseMoney(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m AccountsModel) enterConfirm(account ledger.Account) (tea.Model, tea.Cmd) {
	m.target = account
	m.form = confirmForm(fmt.Sprintf("Excluir a conta %q? Esta ação não pode ser desfeita.", account.Name), m.confirm)
	m.state = accountsStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		m.closeForm()
		m.status = "Exclusão cancelada."

		return m, nil
	}

	return m, m.deleteCmd()
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Carregando contas...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back, r to retry)")
	}

	sum := m.view.Summary
	header := fmt.Sprintf(
		"Total: %s | Positivo: %s | Negativo: %s",
		activeStyle(FormatMoney(sum.Total)),
		revenueStyle.Render(FormatMoney(sum.Positive)),
		expenseStyle.Render(FormatMoney(sum.Negative)),
	)

	if q := strings.TrimSpace(m.search.Value()); q != "" || m.state == accountsStateSearch {
		header += "\n" + m.search.View()
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != accountsStateBrowse && m.state != accountsStateSearch && m.form != nil {
		title := "Nova conta"
		switch {
		case m.state == accountsStateConfirm:
			title = "Excluir conta"
		case m.editing != 0:
			title = "Editar conta"
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
		content = mutedStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.view.Accounts))
	for _, a := range m.view.Accounts {
		rows = append(rows, table.Row{a.Name, a.Institution, FormatMoney(a.Balance)})
	}

	m.table.SetRows(rows)
}

// Messages

type loadAccountsMsg struct {
	view dashboard.AccountsView
	err  error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	svc, sess, query := m.svc, m.session, m.search.Value()

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		view, err := svc.Accounts(ctx, sess, query)
		return loadAccountsMsg{view: view, err: err}
	}
}

type accountSavedMsg struct {
	name    string
	created bool
	err     error
}

func (m AccountsModel) saveCmd() tea.Cmd {
	svc, sess, id := m.svc, m.session, m.editing
	in := dashboard.NewAccount{
		Name:        strings.TrimSpace(m.fields.name),
		Institution: strings.TrimSpace(m.fields.institution),
	}

	balance, err := parseMoney(m.fields.balance)
	if err != nil {
		return func() tea.Msg { return accountSavedMsg{created: id == 0, err: err} }
	}

	in.Balance = balance

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if id == 0 {
			created, err := svc.CreateAccount(ctx, sess, in)
			return accountSavedMsg{name: created.Name, created: true, err: err}
		}

		updated, err := svc.UpdateAccount(ctx, sess, id, in)

		return accountSavedMsg{name: updated.Name, err: err}
	}
}

type accountDeletedMsg struct {
	name string
	err  error
}

func (m AccountsModel) deleteCmd() tea.Cmd {
	svc, sess, account := m.svc, m.session, m.target

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		err := svc.DeleteAccount(ctx, sess, account.ID)
		return accountDeletedMsg{name: account.Name, err: err}
	}
}

// confirmForm asks a yes/no question and stores the answer in value.
func confirmForm(title string, value *bool) *huh.Form {
	*value = false

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(title).
				Affirmative("Sim").
				Negative("Não").
				Value(value),
		),
	).WithWidth(45).WithShowHelp(false)
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// parseMoney accepts "1.234,56", "1234,56" and "1234.56".
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, errors.New("valor obrigatório")
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor inválido %q", s)
	}

	return d, nil
}
