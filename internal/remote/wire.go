package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

// number is a decimal that goes over the wire as a bare JSON number.
// Decoding also accepts quoted numbers.
type number struct {
	decimal.Decimal
}

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *number) UnmarshalJSON(data []byte) error {
	return n.Decimal.UnmarshalJSON(data)
}

// flexID is an identifier the API sends either as a number or a numeric string.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", s, err)
	}

	*f = flexID(v)

	return nil
}

type idRef struct {
	ID flexID `json:"id"`
}

// categoryRef is a category sent either as its id or as a full object.
type categoryRef struct {
	ID   int64
	Name string
}

func (c categoryRef) MarshalJSON() ([]byte, error) {
	if c.Name == "" {
		return []byte(strconv.FormatInt(c.ID, 10)), nil
	}

	return json.Marshal(struct {
		ID   int64  `json:"id,omitempty"`
		Name string `json:"name"`
	}{c.ID, c.Name})
}

func (c *categoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID   flexID `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}

		c.ID, c.Name = int64(obj.ID), obj.Name

		return nil
	}

	var id flexID
	if err := id.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("category: %w", err)
	}

	c.ID = int64(id)

	return nil
}

type transactionDTO struct {
	ID           int64        `json:"id,omitempty"`
	Ammount      number       `json:"ammount"`
	CreationDate string       `json:"creationDate,omitempty"`
	BalanceAfter *number      `json:"balanceAfter,omitempty"`
	Type         string       `json:"type"`
	Category     *categoryRef `json:"category,omitempty"`
	// Cathegory is a misspelling some API versions still emit.
	Cathegory   *categoryRef `json:"cathegory,omitempty"`
	Account     *idRef       `json:"account,omitempty"`
	AccountID   flexID       `json:"accountId,omitempty"`
	Description string       `json:"description,omitempty"`
	Responsible string       `json:"responsible,omitempty"`
}

type accountDTO struct {
	ID           int64            `json:"id,omitempty"`
	Name         string           `json:"name"`
	Balance      number           `json:"balance"`
	Institution  string           `json:"institution"`
	Client       *idRef           `json:"client,omitempty"`
	Transactions []transactionDTO `json:"transactions,omitempty"`
}

type userDTO struct {
	ID    flexID `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	// Adress is the field name the API uses.
	Adress   string `json:"adress,omitempty"`
	Password string `json:"password,omitempty"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// parseDate returns the zero time for empty or unrecognised values.
// Layouts without an offset are wall-clock times in loc.
func parseDate(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}

	return time.Time{}
}

func (d transactionDTO) toLedger(loc *time.Location) ledger.Transaction {
	tx := ledger.Transaction{
		ID:           d.ID,
		AccountID:    int64(d.AccountID),
		Description:  d.Description,
		Amount:       d.Ammount.Decimal,
		CreationDate: parseDate(d.CreationDate, loc),
		Responsible:  d.Responsible,
	}

	if tx.AccountID == 0 && d.Account != nil {
		tx.AccountID = int64(d.Account.ID)
	}

	// Unknown tags are kept verbatim so validation rejects them.
	if typ, err := ledger.ParseType(d.Type); err == nil {
		tx.Type = typ
	} else {
		tx.Type = ledger.Type(d.Type)
	}

	cat := d.Category
	if cat == nil {
		cat = d.Cathegory
	}

	if cat != nil {
		tx.Category = &ledger.Category{ID: cat.ID, Name: cat.Name}
	}

	if d.BalanceAfter != nil {
		tx.BalanceAfter = new(d.BalanceAfter.Decimal)
	}

	return tx
}

func transactionFromLedger(tx ledger.Transaction) transactionDTO {
	d := transactionDTO{
		ID:          tx.ID,
		Ammount:     number{tx.Amount},
		Type:        string(tx.Type),
		AccountID:   flexID(tx.AccountID),
		Description: tx.Description,
		Responsible: tx.Responsible,
	}

	if tx.AccountID != 0 {
		d.Account = &idRef{ID: flexID(tx.AccountID)}
	}

	if tx.Dated() {
		d.CreationDate = tx.CreationDate.UTC().Format(time.RFC3339)
	}

	if tx.Category != nil {
		d.Category = &categoryRef{ID: tx.Category.ID, Name: tx.Category.Name}
	}

	if tx.BalanceAfter != nil {
		d.BalanceAfter = &number{*tx.BalanceAfter}
	}

	return d
}

func (d accountDTO) toLedger(loc *time.Location) ledger.Account {
	a := ledger.Account{
		ID:          d.ID,
		Name:        d.Name,
		Balance:     d.Balance.Decimal,
		Institution: d.Institution,
	}

	if d.Client != nil {
		a.OwnerID = int64(d.Client.ID)
	}

	if len(d.Transactions) > 0 {
		a.Transactions = make([]ledger.Transaction, 0, len(d.Transactions))
		for _, t := range d.Transactions {
			tx := t.toLedger(loc)
			if tx.AccountID == 0 {
				tx.AccountID = a.ID
			}

			a.Transactions = append(a.Transactions, tx)
		}
	}

	return a
}

func accountFromLedger(a ledger.Account) accountDTO {
	d := accountDTO{
		ID:          a.ID,
		Name:        a.Name,
		Balance:     number{a.Balance},
		Institution: a.Institution,
	}

	if a.OwnerID != 0 {
		d.Client = &idRef{ID: flexID(a.OwnerID)}
	}

	return d
}

func (d userDTO) toLedger() ledger.User {
	return ledger.User{
		ID:      int64(d.ID),
		Name:    d.Name,
		Email:   d.Email,
		Phone:   d.Phone,
		Address: d.Adress,
	}
}

func userFromLedger(u ledger.User, password string) userDTO {
	return userDTO{
		ID:       flexID(u.ID),
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Adress:   u.Address,
		Password: password,
	}
}

func transactionsToLedger(in []transactionDTO, loc *time.Location) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(in))
	for _, d := range in {
		out = append(out, d.toLedger(loc))
	}

	return out
}

func accountsToLedger(in []accountDTO, loc *time.Location) []ledger.Account {
	out := make([]ledger.Account, 0, len(in))
	for _, d := range in {
		out = append(out, d.toLedger(loc))
	}

	return out
}
