package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/dindin/internal/report"
)

func TestComputeIndicators(t *testing.T) {
	tests := []struct {
		name        string
		revenue     string
		expense     string
		wantSavings string
		wantAlert   string
		savings     report.Level
		alert       report.Level
	}{
		{name: "NoActivity", revenue: "0", expense: "0", wantSavings: "0", wantAlert: "0", savings: report.LevelLow, alert: report.LevelLow},
		{name: "ExpenseWithoutRevenue", revenue: "0", expense: "10", wantSavings: "0", wantAlert: "100", savings: report.LevelLow, alert: report.LevelHigh},
		{name: "FrugalMonth", revenue: "100", expense: "10", wantSavings: "90", wantAlert: "10", savings: report.LevelHigh, alert: report.LevelLow},
		{name: "Balanced", revenue: "100", expense: "50", wantSavings: "50", wantAlert: "50", savings: report.LevelMedium, alert: report.LevelMedium},
		{name: "Overspent", revenue: "100", expense: "250", wantSavings: "0", wantAlert: "100", savings: report.LevelLow, alert: report.LevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rev, exp := dec(tt.revenue), dec(tt.expense)
			got := report.ComputeIndicators(report.Totals{Revenue: rev, Expense: exp, Balance: rev.Sub(exp)})

			assertDecimal(t, tt.wantSavings, got.Savings.Percent)
			assertDecimal(t, tt.wantAlert, got.ExpenseAlert.Percent)
			assert.Equal(t, tt.savings, got.Savings.Level)
			assert.Equal(t, tt.alert, got.ExpenseAlert.Level)
			assert.NotEmpty(t, got.Savings.Title)
		})
	}
}
