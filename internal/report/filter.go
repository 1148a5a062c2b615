package report

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

// AllTypes disables the type criterion.
const AllTypes ledger.Type = "all"

// Criteria narrows a transaction collection. The zero value matches everything.
type Criteria struct {
	Query string
	Type  ledger.Type
	Range DateRange
}

// Filter returns the transactions that satisfy every active criterion.
// The input slice is never modified and the result is always a new slice.
func Filter(txs []ledger.Transaction, c Criteria, now time.Time) []ledger.Transaction {
	match := matcher(c, now)

	out := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		if match(tx) {
			out = append(out, tx)
		}
	}

	return out
}

func matcher(c Criteria, now time.Time) func(ledger.Transaction) bool {
	var preds []func(ledger.Transaction) bool

	if q := strings.TrimSpace(c.Query); q != "" {
		fold := cases.Fold()
		needle := fold.String(q)

		preds = append(preds, func(tx ledger.Transaction) bool {
			return strings.Contains(fold.String(tx.Description), needle) ||
				strings.Contains(fold.String(tx.CategoryName()), needle)
		})
	}

	if c.Type != "" && c.Type != AllTypes {
		preds = append(preds, func(tx ledger.Transaction) bool {
			return tx.Type == c.Type
		})
	}

	if w, ok := c.Range.Window(now); ok {
		preds = append(preds, func(tx ledger.Transaction) bool {
			return tx.Dated() && w.Contains(tx.CreationDate)
		})
	}

	return func(tx ledger.Transaction) bool {
		for _, p := range preds {
			if !p(tx) {
				return false
			}
		}

		return true
	}
}
