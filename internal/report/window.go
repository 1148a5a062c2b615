package report

import "time"

// DateRange selects the creation-date window applied by Filter.
type DateRange string

const (
	RangeAll        DateRange = "all"
	RangeThisMonth  DateRange = "thisMonth"
	RangeLastMonth  DateRange = "lastMonth"
	RangeLast90Days DateRange = "last90days"
)

// DateRanges lists the ranges in the order the dashboard cycles through them.
var DateRanges = []DateRange{RangeAll, RangeThisMonth, RangeLastMonth, RangeLast90Days}

// ParseDateRange accepts the query-string form of a range. An empty string is RangeAll.
func ParseDateRange(s string) (DateRange, bool) {
	if s == "" {
		return RangeAll, true
	}

	for _, r := range DateRanges {
		if string(r) == s {
			return r, true
		}
	}

	return RangeAll, false
}

func (r DateRange) String() string {
	switch r {
	case RangeThisMonth:
		return "Este mês"
	case RangeLastMonth:
		return "Mês passado"
	case RangeLast90Days:
		return "Últimos 90 dias"
	}

	return "Todo o período"
}

// Window is a half-open or closed interval of creation dates.
type Window struct {
	Start time.Time
	End   time.Time
	// EndExclusive makes the window [Start, End) instead of [Start, End].
	EndExclusive bool
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}

	if w.EndExclusive {
		return t.Before(w.End)
	}

	return !t.After(w.End)
}

// Window returns the interval for the range relative to now. ok is false for RangeAll.
func (r DateRange) Window(now time.Time) (w Window, ok bool) {
	switch r {
	case RangeThisMonth:
		return Window{Start: startOfMonth(now), End: now}, true
	case RangeLastMonth:
		current := startOfMonth(now)
		return Window{Start: current.AddDate(0, -1, 0), End: current, EndExclusive: true}, true
	case RangeLast90Days:
		return Window{Start: now.AddDate(0, 0, -90), End: now}, true
	}

	return Window{}, false
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
