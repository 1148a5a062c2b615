package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/session"
	"github.com/MrJamesThe3rd/dindin/internal/validation"
)

type profileState int

const (
	profileStateLoading profileState = iota
	profileStateForm
	profileStateSaving
	profileStateDone
)

type profileFields struct {
	name     string
	email    string
	phone    string
	address  string
	password string
}

// ProfileModel edits the logged-in user's profile. Without a session it
// registers a new user instead.
type ProfileModel struct {
	CommonModel

	signUp bool
	state  profileState
	form   *huh.Form
	fields *profileFields

	err    error
	status string
}

func NewSignUpModel(svc *dashboard.Service) ProfileModel {
	m := ProfileModel{
		CommonModel: newCommon(svc, session.Session{}),
		signUp:      true,
		state:       profileStateForm,
		fields:      &profileFields{},
	}
	m.form = m.buildForm()

	return m
}

func NewProfileModel(svc *dashboard.Service, sess session.Session) ProfileModel {
	return ProfileModel{
		CommonModel: newCommon(svc, sess),
		fields:      &profileFields{},
	}
}

func (m ProfileModel) Title() string {
	if m.signUp {
		return "Criar conta"
	}

	return "Perfil"
}

func (m ProfileModel) ShortHelp() string {
	if m.state == profileStateForm {
		return "Navigate form | Esc: back"
	}

	return "Esc: back"
}

func (m ProfileModel) Init() tea.Cmd {
	if m.signUp {
		return m.form.Init()
	}

	return m.loadCmd()
}

func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}

			m.state = profileStateDone
			m.err = msg.err

			return m, nil
		}

		*m.fields = profileFields{
			name:    msg.user.Name,
			email:   msg.user.Email,
			phone:   msg.user.Phone,
			address: msg.user.Address,
		}
		m.form = m.buildForm()
		m.state = profileStateForm

		return m, m.form.Init()

	case profileSavedMsg:
		m.state = profileStateDone

		if msg.err != nil {
			// A rejected sign-up has no session to expire.
			if cmd, ok := unauthorized(msg.err); ok && !m.signUp {
				return m, cmd
			}

			m.err = msg.err

			return m, nil
		}

		m.err = nil
		m.session = msg.session
		m.status = "Perfil atualizado."
		sess := msg.session

		return m, func() tea.Msg { return SessionUpdatedMsg{Session: sess} }

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}
	}

	if m.state != profileStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = profileStateSaving
	m.err = nil

	return m, m.saveCmd()
}

func (m ProfileModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case profileStateSaving:
		return m, nil
	case profileStateDone:
		if m.err != nil && m.form != nil {
			m.fields.password = ""
			m.form = m.buildForm()
			m.state = profileStateForm
			m.err = nil

			return m, m.form.Init()
		}
	}

	return m, Back
}

func (m ProfileModel) buildForm() *huh.Form {
	passwordTitle := "Nova senha"
	if m.signUp {
		passwordTitle = "Senha"
	}

	signUp := m.signUp

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Nome").
				Value(&m.fields.name).
				Validate(notBlank("nome")),

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
				Key("phone").
				Title("Telefone").
				Placeholder("opcional").
				Value(&m.fields.phone),

			huh.NewInput().
				Key("address").
				Title("Endereço").
				Placeholder("opcional").
				Value(&m.fields.address),

			huh.NewInput().
				Key("password").
				Title(passwordTitle).
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.password).
				Validate(func(s string) error {
					if s == "" && !signUp {
						return nil
					}
					if len(s) < 6 {
						return errors.New("a senha precisa de ao menos 6 caracteres")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ProfileModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	switch m.state {
	case profileStateLoading:
		return style.Render("Carregando perfil...")
	case profileStateSaving:
		return style.Render("Salvando...")
	case profileStateDone:
		if m.err != nil {
			return style.Render(errorStyle.Render(profileError(m.err)) + "\n\n(Esc to edit)")
		}

		return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	header := m.Title()
	if !m.signUp {
		header += "\n" + mutedStyle.Render("Deixe a nova senha em branco para manter a atual.")
	}

	return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.form.View())
}

func profileError(err error) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		lines := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			lines = append(lines, fmt.Sprintf("%s %s", fe.Field, fe.Message))
		}

		return strings.Join(lines, "\n")
	}

	return fmt.Sprintf("Error: %v", err)
}

// Messages

type profileLoadedMsg struct {
	user ledger.User
	err  error
}

func (m ProfileModel) loadCmd() tea.Cmd {
	svc, sess := m.svc, m.session

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		user, err := svc.Profile(ctx, sess)
		return profileLoadedMsg{user: user, err: err}
	}
}

type profileSavedMsg struct {
	session session.Session
	err     error
}

// saveCmd signs up and logs in, or saves the profile of the current session.
func (m ProfileModel) saveCmd() tea.Cmd {
	svc, sess, f := m.svc, m.session, *m.fields

	if m.signUp {
		in := dashboard.NewUser{
			Name:     strings.TrimSpace(f.name),
			Email:    strings.TrimSpace(f.email),
			Phone:    strings.TrimSpace(f.phone),
			Address:  strings.TrimSpace(f.address),
			Password: f.password,
		}

		return func() tea.Msg {
			ctx, cancel := APICtx()
			defer cancel()

			s, err := svc.SignUp(ctx, in)
			if err != nil {
				return profileSavedMsg{err: err}
			}

			return LoggedInMsg{Session: s}
		}
	}

	in := dashboard.ProfileUpdate{
		Name:     strings.TrimSpace(f.name),
		Email:    strings.TrimSpace(f.email),
		Phone:    strings.TrimSpace(f.phone),
		Address:  strings.TrimSpace(f.address),
		Password: f.password,
	}

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		s, err := svc.UpdateProfile(ctx, sess, in)
		return profileSavedMsg{session: s, err: err}
	}
}
