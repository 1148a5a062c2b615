package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
	"github.com/MrJamesThe3rd/dindin/internal/session"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedReport(t *testing.T) ReportModel {
	t.Helper()

	account := ledger.Account{ID: 1, Name: "Corrente", Institution: "Nubank"}
	account.Transactions = []ledger.Transaction{
		{
			ID:           2,
			AccountID:    1,
			Description:  "Mercado",
			Amount:       decimal.NewFromInt(40),
			Type:         ledger.TypeExpense,
			CreationDate: time.Date(2024, 10, 3, 9, 0, 0, 0, time.Local),
			Category:     &ledger.Category{ID: 4, Name: "Alimentação"},
			Responsible:  "Ana",
		},
	}

	m := NewReportModel(nil, session.Session{}, account)
	t.Cleanup(m.Close)

	m.loading = false
	m.loaded = true
	m.rep.Account = account
	m.rep.View = report.Build(report.Input{
		Transactions: account.Transactions,
		Criteria:     m.criteria,
		Order:        m.order,
		Now:          time.Now(),
	})
	m.refreshTable()

	return m
}

func TestReportModel_DeleteAsksForConfirmation(t *testing.T) {
	m := loadedReport(t)

	next, _ := m.Update(key("D"))
	m = next.(ReportModel)

	require.Equal(t, reportStateConfirm, m.state)
	require.NotNil(t, m.form)
	assert.Equal(t, int64(2), m.target.ID)
	assert.False(t, *m.confirm)
	assert.Contains(t, m.View(), "Excluir transação")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ReportModel)

	assert.Nil(t, cmd)
	assert.Equal(t, reportStateBrowse, m.state)
	assert.Nil(t, m.form)
}

func TestReportModel_DeleteWithoutSelectionDoesNothing(t *testing.T) {
	m := NewReportModel(nil, session.Session{}, ledger.Account{ID: 1})
	t.Cleanup(m.Close)

	next, cmd := m.Update(key("D"))

	assert.Nil(t, cmd)
	assert.Equal(t, reportStateBrowse, next.(ReportModel).state)
}

func TestReportModel_EditPrefillsForm(t *testing.T) {
	m := loadedReport(t)

	next, _ := m.Update(key("e"))
	m = next.(ReportModel)

	require.Equal(t, reportStateEdit, m.state)
	assert.Equal(t, transactionFields{
		kind:        ledger.TypeExpense,
		amount:      "40,00",
		description: "Mercado",
		responsible: "Ana",
		category:    "4",
		date:        "03/10/2024",
	}, *m.fields)
	assert.Contains(t, m.View(), "Editar transação")
}

func TestReportModel_ResultMessagesClosePanel(t *testing.T) {
	tests := []struct {
		name       string
		msg        tea.Msg
		wantStatus string
	}{
		{name: "Deleted", msg: deleteResultMsg{}, wantStatus: "Transação excluída."},
		{name: "Updated", msg: updateResultMsg{}, wantStatus: "Transação atualizada."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadedReport(t)

			next, _ := m.Update(key("D"))
			m = next.(ReportModel)

			next, cmd := m.Update(tt.msg)
			m = next.(ReportModel)

			assert.NotNil(t, cmd)
			assert.Equal(t, reportStateBrowse, m.state)
			assert.Equal(t, tt.wantStatus, m.status)
		})
	}
}

func TestReportModel_ExpiredSessionOnDelete(t *testing.T) {
	m := loadedReport(t)

	_, cmd := m.Update(deleteResultMsg{err: session.ErrExpired})
	require.NotNil(t, cmd)
	assert.Equal(t, SessionExpiredMsg{}, cmd())
}

func TestReportModel_SearchPlaceholderMatchesFilter(t *testing.T) {
	m := NewReportModel(nil, session.Session{}, ledger.Account{ID: 1})
	t.Cleanup(m.Close)

	// The query matches description and category only.
	assert.Equal(t, "descrição ou categoria", m.search.Placeholder)

	got := report.Filter(loadedReport(t).rep.Account.Transactions, report.Criteria{Query: "40", Type: report.AllTypes, Range: report.RangeAll}, time.Now())
	assert.Empty(t, got)
}
