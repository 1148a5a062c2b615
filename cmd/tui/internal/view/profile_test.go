package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/remote"
	"github.com/MrJamesThe3rd/dindin/internal/session"
	"github.com/MrJamesThe3rd/dindin/internal/validation"
)

func TestProfileModel_LoadedProfileFillsForm(t *testing.T) {
	m := NewProfileModel(nil, session.Session{Token: "tok"})

	next, cmd := m.Update(profileLoadedMsg{user: ledger.User{ID: 7, Name: "Ana", Email: "ana@example.com", Phone: "11999990000"}})
	m = next.(ProfileModel)

	assert.NotNil(t, cmd)
	require.Equal(t, profileStateForm, m.state)
	assert.Equal(t, profileFields{name: "Ana", email: "ana@example.com", phone: "11999990000"}, *m.fields)
}

func TestProfileModel_SavedProfileRefreshesSession(t *testing.T) {
	m := NewProfileModel(nil, session.Session{Token: "tok"})
	updated := session.Session{Token: "tok", User: ledger.User{ID: 7, Name: "Ana Lima"}}

	next, cmd := m.Update(profileSavedMsg{session: updated})
	m = next.(ProfileModel)

	require.NotNil(t, cmd)
	assert.Equal(t, SessionUpdatedMsg{Session: updated}, cmd())
	assert.Equal(t, "Perfil atualizado.", m.status)
	assert.Equal(t, profileStateDone, m.state)
}

func TestProfileModel_ErrorsReturnToForm(t *testing.T) {
	tests := []struct {
		name        string
		model       ProfileModel
		err         error
		wantExpired bool
	}{
		{
			name:  "SignUpValidation",
			model: NewSignUpModel(nil),
			err:   validation.Errors{{Field: "phone", Message: "must be at least 10 characters"}},
		},
		{
			name:  "SignUpRejectedLogin",
			model: NewSignUpModel(nil),
			err:   &remote.APIError{Status: 401, Message: "Credenciais inválidas"},
		},
		{
			name:        "ProfileExpired",
			model:       NewProfileModel(nil, session.Session{Token: "tok"}),
			err:         session.ErrExpired,
			wantExpired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.model
			m.fields.password = "segredo"

			next, cmd := m.Update(profileSavedMsg{err: tt.err})
			m = next.(ProfileModel)

			if tt.wantExpired {
				require.NotNil(t, cmd)
				assert.Equal(t, SessionExpiredMsg{}, cmd())

				return
			}

			assert.Nil(t, cmd)
			require.Equal(t, profileStateDone, m.state)
			assert.Contains(t, m.View(), "(Esc to edit)")

			next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
			m = next.(ProfileModel)

			assert.Equal(t, profileStateForm, m.state)
			assert.Empty(t, m.fields.password)
			assert.NoError(t, m.err)
		})
	}
}

func TestProfileModel_EscFromFormGoesBack(t *testing.T) {
	m := NewSignUpModel(nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
