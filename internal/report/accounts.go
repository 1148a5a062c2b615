package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

// ScopeAccounts keeps the accounts owned by userID.
func ScopeAccounts(accounts []ledger.Account, userID int64) []ledger.Account {
	out := make([]ledger.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.OwnerID == userID {
			out = append(out, a)
		}
	}

	return out
}

// SearchAccounts matches query case-insensitively against name or institution.
func SearchAccounts(accounts []ledger.Account, query string) []ledger.Account {
	q := strings.TrimSpace(query)
	if q == "" {
		return append([]ledger.Account{}, accounts...)
	}

	fold := cases.Fold()
	needle := fold.String(q)

	out := make([]ledger.Account, 0, len(accounts))
	for _, a := range accounts {
		if strings.Contains(fold.String(a.Name), needle) || strings.Contains(fold.String(a.Institution), needle) {
			out = append(out, a)
		}
	}

	return out
}

// AccountSummary is the portfolio header of the accounts page.
type AccountSummary struct {
	Total decimal.Decimal
	// Positive sums accounts in credit.
	Positive decimal.Decimal
	// Negative is the magnitude of the sum of overdrawn accounts.
	Negative decimal.Decimal
}

func SummarizeAccounts(accounts []ledger.Account) AccountSummary {
	s := AccountSummary{Total: decimal.Zero, Positive: decimal.Zero, Negative: decimal.Zero}

	for _, a := range accounts {
		s.Total = s.Total.Add(a.Balance)

		switch {
		case a.Balance.IsPositive():
			s.Positive = s.Positive.Add(a.Balance)
		case a.Balance.IsNegative():
			s.Negative = s.Negative.Add(a.Balance.Abs())
		}
	}

	return s
}

// FindAccount returns the account with the given id from an already fetched set.
func FindAccount(accounts []ledger.Account, id int64) (ledger.Account, bool) {
	for _, a := range accounts {
		if a.ID == id {
			return a, true
		}
	}

	return ledger.Account{}, false
}
