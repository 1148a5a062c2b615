package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dindin/internal/export"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

var now = time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)

func sampleView() report.ViewModel {
	return report.Build(report.Input{
		Transactions: []ledger.Transaction{
			{ID: 1, Description: "Salário", Amount: decimal.RequireFromString("3250.75"), Type: ledger.TypeRevenue, CreationDate: time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)},
			{
				ID: 2, Description: "Mercado", Amount: decimal.RequireFromString("40"), Type: ledger.TypeExpense,
				CreationDate: time.Date(2024, 10, 3, 9, 0, 0, 0, time.UTC),
				Category:     &ledger.Category{ID: 4, Name: "Alimentação"},
				Responsible:  "Ana",
			},
		},
		Criteria: report.Criteria{Range: report.RangeThisMonth},
		Order:    report.SortOldest,
		Now:      now,
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleView()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Data;Descrição;Categoria;Tipo;Valor;Saldo após;Responsável", lines[0])
	assert.Equal(t, "01/10/2024;Salário;;Receita;3.250,75;;", lines[1])
	assert.Equal(t, "03/10/2024;Mercado;Alimentação;Despesa;-40,00;;Ana", lines[2])
}

func TestSummary(t *testing.T) {
	got := export.Summary(ledger.Account{Name: "Corrente", Institution: "Nubank"}, sampleView())

	assert.Contains(t, got, "Corrente (Nubank)")
	assert.Contains(t, got, "Receitas: R$ 3.250,75")
	assert.Contains(t, got, "Despesas: R$ 40,00")
	assert.Contains(t, got, "Saldo: R$ 3.210,75")
	assert.Contains(t, got, "* 03/10/2024 | Mercado | -R$ 40,00 | Alimentação")
	assert.Contains(t, got, "* 01/10/2024 | Salário | +R$ 3.250,75 | Sem categoria")
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	files, err := export.WriteFiles(dir, ledger.Account{Name: "Conta Corrente"}, sampleView())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "20241015_Conta_Corrente_thisMonth.csv"), files.CSV)

	csvData, err := os.ReadFile(files.CSV)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "Mercado")

	summary, err := os.ReadFile(files.Summary)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Conta Corrente")
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0,00"},
		{in: "12.5", want: "12,50"},
		{in: "1234.56", want: "1.234,56"},
		{in: "-1234567.891", want: "-1.234.567,89"},
		{in: "100", want: "100,00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, export.Number(decimal.RequireFromString(tt.in)), tt.in)
	}

	assert.Equal(t, "-R$ 5,00", export.Money(decimal.NewFromInt(-5)))
}
