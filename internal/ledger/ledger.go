package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// Account is a cash account as returned by the remote API.
type Account struct {
	// ID is zero until the remote API assigns one.
	ID          int64
	Name        string `validate:"required"`
	Balance     decimal.Decimal
	Institution string `validate:"required"`
	OwnerID     int64
	// Transactions is a display copy; the remote API is authoritative.
	Transactions []Transaction `validate:"dive"`
}

// Transaction is a single movement on an account.
type Transaction struct {
	ID          int64
	AccountID   int64
	Description string
	// Amount is a magnitude; the sign comes from Type.
	Amount decimal.Decimal `validate:"amount"`
	Type   Type            `validate:"transaction_type"`
	// CreationDate is the zero time when the API sent no date or one we could not parse.
	CreationDate time.Time
	Category     *Category `validate:"omitempty"`
	BalanceAfter *decimal.Decimal
	Responsible  string
}

// Dated reports whether the transaction carries a usable creation date.
func (t Transaction) Dated() bool {
	return !t.CreationDate.IsZero()
}

// Signed returns the amount with the direction implied by the type applied.
// Transfers are informational and contribute zero.
func (t Transaction) Signed() decimal.Decimal {
	switch t.Type {
	case TypeRevenue:
		return t.Amount
	case TypeExpense:
		return t.Amount.Neg()
	}

	return decimal.Zero
}

// CategoryName returns the denormalised category name, or "" when uncategorised.
func (t Transaction) CategoryName() string {
	if t.Category == nil {
		return ""
	}

	return t.Category.Name
}

// Category may arrive as a bare id; a name is only required without one.
type Category struct {
	ID   int64
	Name string `validate:"required_without=ID"`
}

// User is the identity the dashboard is scoped to.
type User struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Address string
}
