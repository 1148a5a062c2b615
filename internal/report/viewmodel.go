package report

import (
	"time"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

// Input is everything a render needs. Build holds no other state.
type Input struct {
	Transactions []ledger.Transaction
	Criteria     Criteria
	Order        SortOrder
	Now          time.Time
}

// Charts are the chart-ready series of a view-model.
type Charts struct {
	Weekly       []WeekBucket
	Cumulative   []BalancePoint
	Distribution []Slice
}

// ViewModel is the presentation-ready result of one pipeline run.
type ViewModel struct {
	Transactions []ledger.Transaction
	Totals       Totals
	Growth       GrowthReport
	Charts       Charts
	Indicators   Indicators
	Criteria     Criteria
	Order        SortOrder
	GeneratedAt  time.Time
}

// Build runs Filter, Sort and the aggregations over in.
func Build(in Input) ViewModel {
	filtered := Filter(in.Transactions, in.Criteria, in.Now)
	sorted := Sort(filtered, in.Order)
	totals := Sum(filtered)

	// Growth uses its own month windows, so only the non-date criteria apply.
	undated := in.Criteria
	undated.Range = RangeAll
	growth := MonthOverMonth(Filter(in.Transactions, undated, in.Now), in.Now)

	return ViewModel{
		Transactions: sorted,
		Totals:       totals,
		Growth:       growth,
		Charts: Charts{
			Weekly:       WeeklyBuckets(Filter(filtered, Criteria{Range: chartMonth(in.Criteria.Range)}, in.Now), in.Now.Location()),
			Cumulative:   CumulativeBalance(Sort(filtered, SortOldest)),
			Distribution: Distribution(totals),
		},
		Indicators:  ComputeIndicators(totals),
		Criteria:    in.Criteria,
		Order:       in.Order,
		GeneratedAt: in.Now,
	}
}

// chartMonth picks the calendar month the weekly chart covers.
func chartMonth(r DateRange) DateRange {
	if r == RangeLastMonth {
		return RangeLastMonth
	}

	return RangeThisMonth
}
