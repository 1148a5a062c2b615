package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

func TestSort(t *testing.T) {
	in := []ledger.Transaction{
		tx(1, ledger.TypeRevenue, "10", day(2024, 10, 2), "a"),
		tx(2, ledger.TypeExpense, "50", day(2024, 10, 1), "b"),
		tx(3, ledger.TypeExpense, "30", day(2024, 10, 3), "c"),
	}

	tests := []struct {
		name  string
		order report.SortOrder
		want  []int64
	}{
		{name: "Newest", order: report.SortNewest, want: []int64{3, 1, 2}},
		{name: "Oldest", order: report.SortOldest, want: []int64{2, 1, 3}},
		{name: "HighestAmount", order: report.SortHighestAmount, want: []int64{2, 3, 1}},
		{name: "LowestAmount", order: report.SortLowestAmount, want: []int64{1, 3, 2}},
		{name: "UnknownKeepsOrder", order: report.SortOrder("random"), want: []int64{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.Sort(in, tt.order)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, []int64{1, 2, 3}, ids(in), "input must not be reordered")
		})
	}
}

func TestSort_StableOnTies(t *testing.T) {
	in := []ledger.Transaction{
		tx(1, ledger.TypeExpense, "20", day(2024, 10, 1), "a"),
		tx(2, ledger.TypeExpense, "20", day(2024, 10, 1), "b"),
		tx(3, ledger.TypeExpense, "20", day(2024, 10, 1), "c"),
	}

	for _, order := range report.SortOrders {
		assert.Equal(t, []int64{1, 2, 3}, ids(report.Sort(in, order)), order)
	}
}

func TestSort_IsPermutation(t *testing.T) {
	in := []ledger.Transaction{
		tx(1, ledger.TypeRevenue, "1", day(2024, 1, 1), "a"),
		tx(2, ledger.TypeRevenue, "3", day(2024, 3, 1), "b"),
		tx(3, ledger.TypeRevenue, "2", day(2024, 2, 1), "c"),
	}

	for _, order := range report.SortOrders {
		got := report.Sort(in, order)
		assert.ElementsMatch(t, in, got, order)
	}
}

func TestSort_Empty(t *testing.T) {
	got := report.Sort(nil, report.SortNewest)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSortOrder(t *testing.T) {
	o, ok := report.ParseSortOrder("")
	assert.True(t, ok)
	assert.Equal(t, report.SortNewest, o)

	o, ok = report.ParseSortOrder("lowestAmount")
	assert.True(t, ok)
	assert.Equal(t, report.SortLowestAmount, o)

	_, ok = report.ParseSortOrder("alphabetical")
	assert.False(t, ok)
}
