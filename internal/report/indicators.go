package report

import "github.com/shopspring/decimal"

type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Indicator is a clamped percentage with its qualitative level.
type Indicator struct {
	Percent decimal.Decimal
	Level   Level
	Title   string
}

// Indicators are the two progress bars shown above the transaction list.
type Indicators struct {
	// Savings is the share of revenue left after expenses.
	Savings Indicator
	// ExpenseAlert is the share of revenue consumed by expenses.
	ExpenseAlert Indicator
}

// ComputeIndicators derives the savings and expense-alert bars from totals.
// With no revenue both percentages are 0, except that any expense saturates the alert.
func ComputeIndicators(t Totals) Indicators {
	savings, alert := decimal.Zero, decimal.Zero

	switch {
	case t.Revenue.IsPositive():
		savings = clampPercent(t.Balance.Div(t.Revenue).Mul(hundred))
		alert = clampPercent(t.Expense.Div(t.Revenue).Mul(hundred))
	case t.Expense.IsPositive():
		alert = hundred
	}

	return Indicators{
		Savings:      savingsIndicator(savings),
		ExpenseAlert: alertIndicator(alert),
	}
}

func savingsIndicator(p decimal.Decimal) Indicator {
	ind := Indicator{Percent: p}

	switch {
	case p.LessThan(decimal.NewFromInt(45)):
		ind.Level, ind.Title = LevelLow, "Nível de Saldo Diário: Baixo"
	case p.LessThanOrEqual(decimal.NewFromInt(65)):
		ind.Level, ind.Title = LevelMedium, "Nível de Saldo Diário: Médio"
	default:
		ind.Level, ind.Title = LevelHigh, "Nível de Saldo Diário: Alto"
	}

	return ind
}

func alertIndicator(p decimal.Decimal) Indicator {
	ind := Indicator{Percent: p}

	switch {
	case p.LessThan(decimal.NewFromInt(20)):
		ind.Level, ind.Title = LevelLow, "Alerta de Saldo: Risco baixo"
	case p.LessThanOrEqual(decimal.NewFromInt(50)):
		ind.Level, ind.Title = LevelMedium, "Alerta de Saldo: Risco moderado"
	default:
		ind.Level, ind.Title = LevelHigh, "Alerta de Saldo: Risco considerável"
	}

	return ind
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}

	if p.GreaterThan(hundred) {
		return hundred
	}

	return p
}
