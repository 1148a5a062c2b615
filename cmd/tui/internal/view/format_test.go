package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1.234,56", want: "1234.56"},
		{in: "R$ 10,5", want: "10.5"},
		{in: "99.90", want: "99.9"},
		{in: "-3", want: "-3"},
		{in: "", wantErr: true},
		{in: "dez", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseFormDate(t *testing.T) {
	got, err := parseFormDate("05/10/2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 5, 0, 0, 0, 0, time.Local), got)

	got, err = parseFormDate("  ")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseFormDate("2024-10-05")
	assert.Error(t, err)
}

func TestNext(t *testing.T) {
	assert.Equal(t, report.RangeThisMonth, next(report.DateRanges, report.RangeAll))
	assert.Equal(t, report.RangeAll, next(report.DateRanges, report.RangeLast90Days))
	assert.Equal(t, report.AllTypes, next(typeFilters, ledger.TypeTransfer))
	assert.Equal(t, report.SortNewest, next(report.SortOrders, report.SortOrder("bogus")))
}

func TestBar(t *testing.T) {
	peak := decimal.NewFromInt(100)

	assert.Equal(t, "▏", bar(decimal.Zero, peak))
	assert.Equal(t, "▏", bar(decimal.NewFromInt(5), decimal.Zero))
	assert.Len(t, []rune(bar(peak, peak)), chartWidth)
	assert.Len(t, []rune(bar(decimal.NewFromInt(50), peak)), chartWidth/2)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(time.Time{}))
	assert.Equal(t, "05/10/2024", FormatDate(time.Date(2024, 10, 5, 9, 0, 0, 0, time.UTC)))
}
