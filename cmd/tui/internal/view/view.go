package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/session"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views that talk to the dashboard.
type CommonModel struct {
	Width  int
	Height int

	svc     *dashboard.Service
	session session.Session
}

func newCommon(svc *dashboard.Service, sess session.Session) CommonModel {
	return CommonModel{svc: svc, session: sess}
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// LoggedInMsg carries the session of a successful login.
type LoggedInMsg struct {
	Session session.Session
}

// SessionUpdatedMsg carries a session whose user changed, to be saved in place.
type SessionUpdatedMsg struct {
	Session session.Session
}

// SessionExpiredMsg asks the root model to drop the session and show the login form.
type SessionExpiredMsg struct{}

// unauthorized turns an authentication failure into a SessionExpiredMsg command.
func unauthorized(err error) (tea.Cmd, bool) {
	if !dashboard.IsUnauthorized(err) {
		return nil, false
	}

	return func() tea.Msg { return SessionExpiredMsg{} }, true
}
