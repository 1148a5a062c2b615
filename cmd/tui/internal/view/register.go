package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/export"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/session"
	"github.com/MrJamesThe3rd/dindin/internal/validation"
)

type registerState int

const (
	registerStateAccount registerState = iota
	registerStateForm
	registerStateSaving
	registerStateResult
)

type transactionFields struct {
	kind        ledger.Type
	amount      string
	description string
	responsible string
	category    string
	date        string
}

type RegisterModel struct {
	CommonModel

	state   registerState
	picker  AccountPicker
	account ledger.Account
	form    *huh.Form
	fields  *transactionFields

	created ledger.Transaction
	err     error
}

func NewRegisterModel(svc *dashboard.Service, sess session.Session) RegisterModel {
	return RegisterModel{
		CommonModel: newCommon(svc, sess),
		picker:      NewAccountPicker(svc, sess),
		fields:      &transactionFields{},
	}
}

func (m RegisterModel) Title() string { return "Registrar transação" }

func (m RegisterModel) ShortHelp() string {
	if m.state == registerStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m RegisterModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AccountSelectedMsg:
		m.account = msg.Account
		*m.fields = transactionFields{
			kind:        ledger.TypeExpense,
			responsible: m.session.User.Name,
			date:        time.Now().Format("02/01/2006"),
		}
		m.form = transactionForm(m.fields)
		m.state = registerStateForm

		return m, m.form.Init()

	case registeredMsg:
		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}
		}

		m.state = registerStateResult
		m.created = msg.tx
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}
	}

	switch m.state {
	case registerStateAccount:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)

		return m, cmd
	case registerStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m RegisterModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case registerStateForm:
		m.state = registerStateAccount
		m.form = nil

		return m, nil
	case registerStateResult:
		if m.err != nil {
			m.state = registerStateForm
			m.err = nil
			m.form = transactionForm(m.fields)

			return m, m.form.Init()
		}
	case registerStateSaving:
		return m, nil
	}

	return m, Back
}

func (m RegisterModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	tx, err := m.fields.toLedger(m.account.ID)
	if err != nil {
		m.state = registerStateResult
		m.err = err

		return m, nil
	}

	m.state = registerStateSaving

	return m, m.registerCmd(tx)
}

// fieldsFrom fills the form fields from an existing transaction.
func fieldsFrom(tx ledger.Transaction) transactionFields {
	f := transactionFields{
		kind:        tx.Type,
		amount:      export.Number(tx.Amount),
		description: tx.Description,
		responsible: tx.Responsible,
	}

	if tx.Category != nil && tx.Category.ID != 0 {
		f.category = strconv.FormatInt(tx.Category.ID, 10)
	}

	if tx.Dated() {
		f.date = tx.CreationDate.In(time.Local).Format("02/01/2006")
	}

	return f
}

func transactionForm(fields *transactionFields) *huh.Form {
	options := make([]huh.Option[ledger.Type], 0, len(ledger.Types))
	for _, t := range ledger.Types {
		options = append(options, huh.NewOption(t.Label(), t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ledger.Type]().
				Key("type").
				Title("Tipo").
				Options(options...).
				Value(&fields.kind),

			huh.NewInput().
				Key("amount").
				Title("Valor").
				Placeholder("0,00").
				Value(&fields.amount).
				Validate(func(s string) error {
					d, err := parseMoney(s)
					if err != nil {
						return err
					}
					if d.IsNegative() {
						return errors.New("informe o valor sem sinal")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Descrição").
				Value(&fields.description),

			huh.NewInput().
				Key("responsible").
				Title("Responsável").
				Value(&fields.responsible),

			huh.NewInput().
				Key("category").
				Title("Categoria (id)").
				Placeholder("opcional").
				Value(&fields.category).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					return err
				}),

			huh.NewInput().
				Key("date").
				Title("Data").
				Placeholder("DD/MM/AAAA").
				Value(&fields.date).
				Validate(func(s string) error {
					_, err := parseFormDate(s)
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

// toLedger turns the form fields into a transaction on accountID.
func (f transactionFields) toLedger(accountID int64) (ledger.Transaction, error) {
	amount, err := parseMoney(f.amount)
	if err != nil {
		return ledger.Transaction{}, err
	}

	date, err := parseFormDate(f.date)
	if err != nil {
		return ledger.Transaction{}, err
	}

	tx := ledger.Transaction{
		AccountID:    accountID,
		Description:  strings.TrimSpace(f.description),
		Amount:       amount,
		Type:         f.kind,
		CreationDate: date,
		Responsible:  strings.TrimSpace(f.responsible),
	}

	if s := strings.TrimSpace(f.category); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return ledger.Transaction{}, fmt.Errorf("categoria inválida %q", s)
		}

		tx.Category = &ledger.Category{ID: id}
	}

	return tx, nil
}

// parseFormDate accepts DD/MM/AAAA; an empty value leaves the date for the service to stamp.
func parseFormDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.ParseInLocation("02/01/2006", s, time.Local)
	if err != nil {
		return time.Time{}, errors.New("data inválida (DD/MM/AAAA)")
	}

	return t, nil
}

func (m RegisterModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	switch m.state {
	case registerStateAccount:
		return style.Render(m.picker.View())
	case registerStateForm:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Nova transação em %s\n\n%s", m.account.Name, m.form.View()),
		)
	case registerStateSaving:
		return style.Render("Registrando...")
	case registerStateResult:
		return style.Render(m.viewResult())
	}

	return ""
}

func (m RegisterModel) viewResult() string {
	if m.err == nil {
		tx := m.created

		return successStyle.Render(fmt.Sprintf("%s de %s registrada em %s.", tx.Type.Label(), FormatMoney(tx.Amount), m.account.Name)) +
			"\n\n(Esc to go back)"
	}

	msg := fmt.Sprintf("Error: %v", m.err)

	var verrs validation.Errors
	if errors.As(m.err, &verrs) {
		lines := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			lines = append(lines, fmt.Sprintf("%s %s", fe.Field, fe.Message))
		}

		msg = strings.Join(lines, "\n")
	}

	return errorStyle.Render(msg) + "\n\n(Esc to edit)"
}

// Messages

type registeredMsg struct {
	tx  ledger.Transaction
	err error
}

func (m RegisterModel) registerCmd(tx ledger.Transaction) tea.Cmd {
	svc, sess := m.svc, m.session

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		created, err := svc.RegisterTransaction(ctx, sess, tx)
		return registeredMsg{tx: created, err: err}
	}
}
