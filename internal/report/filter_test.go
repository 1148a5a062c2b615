package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

func TestFilter(t *testing.T) {
	food := &ledger.Category{ID: 3, Name: "Alimentação"}

	groceries := tx(1, ledger.TypeExpense, "40", day(2024, 10, 3), "Mercado Central")
	groceries.Category = food
	salary := tx(2, ledger.TypeRevenue, "100", day(2024, 10, 1), "Salário")
	oldRent := tx(3, ledger.TypeExpense, "70", day(2024, 9, 5), "Aluguel")
	transfer := tx(4, ledger.TypeTransfer, "25", day(2024, 10, 2), "Poupança")
	undated := tx(5, ledger.TypeRevenue, "10", time.Time{}, "Sem data")
	ancient := tx(6, ledger.TypeRevenue, "5", day(2023, 1, 1), "Bônus")

	all := []ledger.Transaction{groceries, salary, oldRent, transfer, undated, ancient}

	tests := []struct {
		name     string
		criteria report.Criteria
		want     []int64
	}{
		{
			name:     "NoCriteria",
			criteria: report.Criteria{},
			want:     []int64{1, 2, 3, 4, 5, 6},
		},
		{
			name:     "AllTypesIsNoTypeFilter",
			criteria: report.Criteria{Type: report.AllTypes, Range: report.RangeAll},
			want:     []int64{1, 2, 3, 4, 5, 6},
		},
		{
			name:     "QueryMatchesDescriptionCaseInsensitive",
			criteria: report.Criteria{Query: "  mercado "},
			want:     []int64{1},
		},
		{
			name:     "QueryMatchesCategoryName",
			criteria: report.Criteria{Query: "ALIMENTAÇÃO"},
			want:     []int64{1},
		},
		{
			name:     "WhitespaceQueryIsIgnored",
			criteria: report.Criteria{Query: "   "},
			want:     []int64{1, 2, 3, 4, 5, 6},
		},
		{
			name:     "TypeExpense",
			criteria: report.Criteria{Type: ledger.TypeExpense},
			want:     []int64{1, 3},
		},
		{
			name:     "ThisMonthDropsUndated",
			criteria: report.Criteria{Range: report.RangeThisMonth},
			want:     []int64{1, 2, 4},
		},
		{
			name:     "LastMonth",
			criteria: report.Criteria{Range: report.RangeLastMonth},
			want:     []int64{3},
		},
		{
			name:     "Last90Days",
			criteria: report.Criteria{Range: report.RangeLast90Days},
			want:     []int64{1, 2, 3, 4},
		},
		{
			name:     "UnknownRangeIsAll",
			criteria: report.Criteria{Range: report.DateRange("forever")},
			want:     []int64{1, 2, 3, 4, 5, 6},
		},
		{
			name:     "Combined",
			criteria: report.Criteria{Query: "a", Type: ledger.TypeRevenue, Range: report.RangeThisMonth},
			want:     []int64{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.Filter(all, tt.criteria, now)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	got := report.Filter(nil, report.Criteria{Query: "x"}, now)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := []ledger.Transaction{
		tx(1, ledger.TypeExpense, "10", day(2024, 10, 1), "a"),
		tx(2, ledger.TypeRevenue, "20", day(2024, 10, 2), "b"),
	}
	before := append([]ledger.Transaction{}, in...)

	_ = report.Filter(in, report.Criteria{Type: ledger.TypeRevenue}, now)

	assert.Equal(t, before, in)
}

func TestDateRange_Window(t *testing.T) {
	w, ok := report.RangeLastMonth.Window(now)
	assert.True(t, ok)
	assert.True(t, w.Contains(day(2024, 9, 1).Add(-9*time.Hour)))
	assert.True(t, w.Contains(day(2024, 9, 30)))
	assert.False(t, w.Contains(day(2024, 10, 1).Add(-9*time.Hour)))

	w, ok = report.RangeThisMonth.Window(now)
	assert.True(t, ok)
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(now.Add(time.Minute)))

	_, ok = report.RangeAll.Window(now)
	assert.False(t, ok)
}

func TestParseDateRange(t *testing.T) {
	r, ok := report.ParseDateRange("")
	assert.True(t, ok)
	assert.Equal(t, report.RangeAll, r)

	r, ok = report.ParseDateRange("last90days")
	assert.True(t, ok)
	assert.Equal(t, report.RangeLast90Days, r)

	_, ok = report.ParseDateRange("yesterday")
	assert.False(t, ok)
}
