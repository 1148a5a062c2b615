package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

func accounts() []ledger.Account {
	return []ledger.Account{
		{ID: 1, Name: "Conta Corrente", Institution: "Nubank", OwnerID: 7, Balance: dec("1500.50")},
		{ID: 2, Name: "Reserva", Institution: "Itaú", OwnerID: 7, Balance: dec("-200")},
		{ID: 3, Name: "Carteira", Institution: "Dinheiro", OwnerID: 9, Balance: dec("40")},
		{ID: 4, Name: "Poupança", Institution: "Caixa", OwnerID: 7, Balance: dec("0")},
	}
}

func TestScopeAccounts(t *testing.T) {
	got := report.ScopeAccounts(accounts(), 7)

	var gotIDs []int64
	for _, a := range got {
		gotIDs = append(gotIDs, a.ID)
	}

	assert.Equal(t, []int64{1, 2, 4}, gotIDs)
	assert.Empty(t, report.ScopeAccounts(accounts(), 42))
}

func TestSearchAccounts(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "Empty", query: "", want: []int64{1, 2, 3, 4}},
		{name: "ByName", query: "reserva", want: []int64{2}},
		{name: "ByInstitution", query: "ITAÚ", want: []int64{2}},
		{name: "Partial", query: "ca", want: []int64{3, 4}},
		{name: "NoMatch", query: "binance", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []int64{}
			for _, a := range report.SearchAccounts(accounts(), tt.query) {
				got = append(got, a.ID)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeAccounts(t *testing.T) {
	got := report.SummarizeAccounts(accounts())

	assertDecimal(t, "1340.50", got.Total)
	assertDecimal(t, "1540.50", got.Positive)
	assertDecimal(t, "200", got.Negative)
}

func TestFindAccount(t *testing.T) {
	a, ok := report.FindAccount(accounts(), 3)
	assert.True(t, ok)
	assert.Equal(t, "Carteira", a.Name)

	_, ok = report.FindAccount(accounts(), 99)
	assert.False(t, ok)
}
