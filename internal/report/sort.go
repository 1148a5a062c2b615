package report

import (
	"slices"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

// SortOrder names an ordering of a transaction list.
type SortOrder string

const (
	SortNewest        SortOrder = "newest"
	SortOldest        SortOrder = "oldest"
	SortHighestAmount SortOrder = "highestAmount"
	SortLowestAmount  SortOrder = "lowestAmount"
)

var SortOrders = []SortOrder{SortNewest, SortOldest, SortHighestAmount, SortLowestAmount}

// ParseSortOrder accepts the query-string form of an order. An empty string is SortNewest.
func ParseSortOrder(s string) (SortOrder, bool) {
	if s == "" {
		return SortNewest, true
	}

	for _, o := range SortOrders {
		if string(o) == s {
			return o, true
		}
	}

	return SortOrder(s), false
}

func (o SortOrder) String() string {
	switch o {
	case SortNewest:
		return "Mais recentes"
	case SortOldest:
		return "Mais antigas"
	case SortHighestAmount:
		return "Maior valor"
	case SortLowestAmount:
		return "Menor valor"
	}

	return string(o)
}

// Sort returns a stably ordered copy of txs. Unknown orders return the copy unchanged.
func Sort(txs []ledger.Transaction, order SortOrder) []ledger.Transaction {
	out := slices.Clone(txs)
	if out == nil {
		out = []ledger.Transaction{}
	}

	cmp := comparator(order)
	if cmp == nil {
		return out
	}

	slices.SortStableFunc(out, cmp)

	return out
}

func comparator(order SortOrder) func(a, b ledger.Transaction) int {
	switch order {
	case SortNewest:
		return func(a, b ledger.Transaction) int { return b.CreationDate.Compare(a.CreationDate) }
	case SortOldest:
		return func(a, b ledger.Transaction) int { return a.CreationDate.Compare(b.CreationDate) }
	case SortHighestAmount:
		return func(a, b ledger.Transaction) int { return b.Amount.Cmp(a.Amount) }
	case SortLowestAmount:
		return func(a, b ledger.Transaction) int { return a.Amount.Cmp(b.Amount) }
	}

	return nil
}
