package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/session"
	"github.com/MrJamesThe3rd/dindin/internal/validation"
)

// loginFields outlives the value copies bubbletea makes of LoginModel.
type loginFields struct {
	email    string
	password string
}

type LoginModel struct {
	svc *dashboard.Service

	form       *huh.Form
	fields     *loginFields
	submitting bool
	err        error
}

func NewLoginModel(svc *dashboard.Service) LoginModel {
	m := LoginModel{svc: svc, fields: &loginFields{}}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string { return "Login" }

func (m LoginModel) ShortHelp() string { return "Enter: next | ctrl+n: criar conta | ctrl+c: quit" }

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("E-mail").
				Value(&m.fields.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("informe um e-mail válido")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Senha").
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.password),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

type loginFailedMsg struct {
	err error
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if failed, ok := msg.(loginFailedMsg); ok {
		m.submitting = false
		m.err = failed.err
		m.fields.password = ""
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true
	m.err = nil

	return m, m.loginCmd()
}

func (m LoginModel) loginCmd() tea.Cmd {
	svc := m.svc
	creds := dashboard.Credentials{
		Email:    strings.TrimSpace(m.fields.email),
		Password: m.fields.password,
	}

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		sess, err := svc.Login(ctx, creds)
		if err != nil {
			return loginFailedMsg{err: err}
		}

		return LoggedInMsg{Session: sess}
	}
}

func (m LoginModel) View() string {
	content := "Dindin\n\n" + m.form.View()

	if m.submitting {
		content += "\n\nEntrando..."
	}

	if m.err != nil {
		content += "\n\n" + errorStyle.Render(loginError(m.err))
	}

	content += "\n\n" + mutedStyle.Render(m.ShortHelp())

	return lipgloss.NewStyle().Padding(2).Render(content)
}

func loginError(err error) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs.Error()
	}

	if dashboard.IsUnauthorized(err) {
		return "E-mail ou senha inválidos"
	}

	return fmt.Sprintf("Error: %v", err)
}

// RestoreSession loads a saved session and reports whether it is still usable.
func RestoreSession(store *session.FileStore) (session.Session, bool) {
	sess, err := store.Load()
	if err != nil {
		return session.Session{}, false
	}

	if err := sess.Valid(time.Now()); err != nil {
		return session.Session{}, false
	}

	return sess, true
}
