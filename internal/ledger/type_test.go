package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		tag     string
		want    ledger.Type
		wantErr bool
	}{
		{tag: "REVENUE", want: ledger.TypeRevenue},
		{tag: "expense", want: ledger.TypeExpense},
		{tag: " TRANSFER ", want: ledger.TypeTransfer},
		{tag: "entrada", want: ledger.TypeRevenue},
		{tag: "saida", want: ledger.TypeExpense},
		{tag: "RECEITA", want: ledger.TypeRevenue},
		{tag: "DESPESA", want: ledger.TypeExpense},
		{tag: "INCOME", wantErr: true},
		{tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ledger.ParseType(tt.tag)
			if tt.wantErr {
				var unknown *ledger.ErrUnknownType
				require.ErrorAs(t, err, &unknown)
				assert.Equal(t, tt.tag, unknown.Tag)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransaction_Signed(t *testing.T) {
	amount := decimal.RequireFromString("12.50")

	assert.True(t, ledger.Transaction{Amount: amount, Type: ledger.TypeRevenue}.Signed().Equal(amount))
	assert.True(t, ledger.Transaction{Amount: amount, Type: ledger.TypeExpense}.Signed().Equal(amount.Neg()))
	assert.True(t, ledger.Transaction{Amount: amount, Type: ledger.TypeTransfer}.Signed().IsZero())
}

func TestTransaction_CategoryName(t *testing.T) {
	assert.Equal(t, "", ledger.Transaction{}.CategoryName())
	assert.Equal(t, "Salário", ledger.Transaction{Category: &ledger.Category{ID: 1, Name: "Salário"}}.CategoryName())
}
