package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

var hundred = decimal.NewFromInt(100)

// Totals are the summary sums over a transaction set. Transfers are excluded.
type Totals struct {
	Revenue decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

func Sum(txs []ledger.Transaction) Totals {
	revenue, expense := decimal.Zero, decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case ledger.TypeRevenue:
			revenue = revenue.Add(tx.Amount)
		case ledger.TypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	return Totals{
		Revenue: revenue,
		Expense: expense,
		Balance: revenue.Sub(expense),
	}
}

// Growth is the percentage change from previous to current.
// A zero previous value yields 100 when current is positive and 0 otherwise.
func Growth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}

		return decimal.Zero
	}

	return current.Sub(previous).Div(previous).Mul(hundred)
}

// GrowthReport holds month-over-month percentages.
type GrowthReport struct {
	Revenue decimal.Decimal
	Expense decimal.Decimal
}

// MonthOverMonth compares the current calendar month up to now against the previous one.
func MonthOverMonth(txs []ledger.Transaction, now time.Time) GrowthReport {
	current := Sum(Filter(txs, Criteria{Range: RangeThisMonth}, now))
	previous := Sum(Filter(txs, Criteria{Range: RangeLastMonth}, now))

	return GrowthReport{
		Revenue: Growth(current.Revenue, previous.Revenue),
		Expense: Growth(current.Expense, previous.Expense),
	}
}

// WeekBucket accumulates one week-of-month for the bar chart.
type WeekBucket struct {
	Week    int
	Label   string
	Revenue decimal.Decimal
	Expense decimal.Decimal
}

// WeekOfMonth numbers weeks from 1, with weeks starting on Sunday.
func WeekOfMonth(t time.Time) int {
	first := startOfMonth(t)
	return (t.Day() + int(first.Weekday()) + 6) / 7
}

// WeeklyBuckets partitions a single month's transactions by week of month,
// reading each date on the calendar of loc. One bucket is produced per distinct
// week present, ordered by week number. Undated transactions are skipped.
func WeeklyBuckets(txs []ledger.Transaction, loc *time.Location) []WeekBucket {
	byWeek := make(map[int]*WeekBucket)

	for _, tx := range txs {
		if !tx.Dated() {
			continue
		}

		week := WeekOfMonth(tx.CreationDate.In(loc))

		b, ok := byWeek[week]
		if !ok {
			b = &WeekBucket{
				Week:    week,
				Label:   fmt.Sprintf("Semana %d", week),
				Revenue: decimal.Zero,
				Expense: decimal.Zero,
			}
			byWeek[week] = b
		}

		switch tx.Type {
		case ledger.TypeRevenue:
			b.Revenue = b.Revenue.Add(tx.Amount)
		case ledger.TypeExpense:
			b.Expense = b.Expense.Add(tx.Amount)
		}
	}

	out := make([]WeekBucket, 0, len(byWeek))
	for _, b := range byWeek {
		out = append(out, *b)
	}

	slices.SortFunc(out, func(a, b WeekBucket) int { return a.Week - b.Week })

	return out
}

// BalancePoint is one point of the cumulative balance line.
type BalancePoint struct {
	TransactionID int64
	Date          time.Time
	Balance       decimal.Decimal
}

// CumulativeBalance walks chronologically sorted transactions and returns the
// running balance after each one. A server-reported BalanceAfter takes
// precedence and re-anchors the running total.
func CumulativeBalance(txs []ledger.Transaction) []BalancePoint {
	out := make([]BalancePoint, 0, len(txs))
	running := decimal.Zero

	for _, tx := range txs {
		if tx.BalanceAfter != nil {
			running = *tx.BalanceAfter
		} else {
			running = running.Add(tx.Signed())
		}

		out = append(out, BalancePoint{
			TransactionID: tx.ID,
			Date:          tx.CreationDate,
			Balance:       running,
		})
	}

	return out
}

// Slice is one wedge of the revenue/expense pie chart.
type Slice struct {
	Name  string
	Value decimal.Decimal
}

func Distribution(t Totals) []Slice {
	return []Slice{
		{Name: "Receitas", Value: t.Revenue},
		{Name: "Despesas", Value: t.Expense},
	}
}
