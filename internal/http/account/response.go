package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

type accountResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Institution string          `json:"institution"`
	Balance     decimal.Decimal `json:"balance"`
}

type summaryResponse struct {
	Total    decimal.Decimal `json:"total"`
	Positive decimal.Decimal `json:"positive"`
	Negative decimal.Decimal `json:"negative"`
}

type accountsResponse struct {
	Accounts []accountResponse `json:"accounts"`
	Summary  summaryResponse   `json:"summary"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type transactionResponse struct {
	ID           int64             `json:"id"`
	AccountID    int64             `json:"account_id"`
	Description  string            `json:"description"`
	Amount       decimal.Decimal   `json:"amount"`
	Type         ledger.Type       `json:"type"`
	TypeLabel    string            `json:"type_label"`
	CreationDate *time.Time        `json:"creation_date,omitempty"`
	Category     *categoryResponse `json:"category,omitempty"`
	BalanceAfter *decimal.Decimal  `json:"balance_after,omitempty"`
	Responsible  string            `json:"responsible,omitempty"`
}

type weekResponse struct {
	Week    int             `json:"week"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
}

type pointResponse struct {
	TransactionID int64           `json:"transaction_id"`
	Date          *time.Time      `json:"date,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
}

type sliceResponse struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type indicatorResponse struct {
	Percent decimal.Decimal `json:"percent"`
	Level   report.Level    `json:"level"`
	Title   string          `json:"title"`
}

type reportResponse struct {
	Account      accountResponse       `json:"account"`
	Transactions []transactionResponse `json:"transactions"`
	Totals       struct {
		Revenue decimal.Decimal `json:"revenue"`
		Expense decimal.Decimal `json:"expense"`
		Balance decimal.Decimal `json:"balance"`
	} `json:"totals"`
	Growth struct {
		Revenue decimal.Decimal `json:"revenue"`
		Expense decimal.Decimal `json:"expense"`
	} `json:"growth"`
	Charts struct {
		Weekly       []weekResponse  `json:"weekly"`
		Cumulative   []pointResponse `json:"cumulative"`
		Distribution []sliceResponse `json:"distribution"`
	} `json:"charts"`
	Indicators struct {
		Savings      indicatorResponse `json:"savings"`
		ExpenseAlert indicatorResponse `json:"expense_alert"`
	} `json:"indicators"`
	Query struct {
		Q     string           `json:"q"`
		Type  ledger.Type      `json:"type"`
		Range report.DateRange `json:"range"`
		Sort  report.SortOrder `json:"sort"`
	} `json:"query"`
	GeneratedAt time.Time `json:"generated_at"`
}

func dated(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return new(t)
}

func toAccountResponse(a ledger.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Institution: a.Institution,
		Balance:     a.Balance,
	}
}

func toAccountsResponse(v dashboard.AccountsView) accountsResponse {
	resp := accountsResponse{
		Accounts: make([]accountResponse, 0, len(v.Accounts)),
		Summary: summaryResponse{
			Total:    v.Summary.Total,
			Positive: v.Summary.Positive,
			Negative: v.Summary.Negative,
		},
	}

	for _, a := range v.Accounts {
		resp.Accounts = append(resp.Accounts, toAccountResponse(a))
	}

	return resp
}

func toTransactionResponse(tx ledger.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:           tx.ID,
		AccountID:    tx.AccountID,
		Description:  tx.Description,
		Amount:       tx.Amount,
		Type:         tx.Type,
		TypeLabel:    tx.Type.Label(),
		CreationDate: dated(tx.CreationDate),
		BalanceAfter: tx.BalanceAfter,
		Responsible:  tx.Responsible,
	}

	if tx.Category != nil {
		resp.Category = &categoryResponse{ID: tx.Category.ID, Name: tx.Category.Name}
	}

	return resp
}

func toReportResponse(r dashboard.AccountReport) reportResponse {
	vm := r.View

	var resp reportResponse

	resp.Account = toAccountResponse(r.Account)

	resp.Transactions = make([]transactionResponse, 0, len(vm.Transactions))
	for _, tx := range vm.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}

	resp.Totals.Revenue = vm.Totals.Revenue
	resp.Totals.Expense = vm.Totals.Expense
	resp.Totals.Balance = vm.Totals.Balance
	resp.Growth.Revenue = vm.Growth.Revenue.Round(2)
	resp.Growth.Expense = vm.Growth.Expense.Round(2)

	resp.Charts.Weekly = make([]weekResponse, 0, len(vm.Charts.Weekly))
	for _, b := range vm.Charts.Weekly {
		resp.Charts.Weekly = append(resp.Charts.Weekly, weekResponse{Week: b.Week, Label: b.Label, Revenue: b.Revenue, Expense: b.Expense})
	}

	resp.Charts.Cumulative = make([]pointResponse, 0, len(vm.Charts.Cumulative))
	for _, p := range vm.Charts.Cumulative {
		resp.Charts.Cumulative = append(resp.Charts.Cumulative, pointResponse{TransactionID: p.TransactionID, Date: dated(p.Date), Balance: p.Balance})
	}

	resp.Charts.Distribution = make([]sliceResponse, 0, len(vm.Charts.Distribution))
	for _, s := range vm.Charts.Distribution {
		resp.Charts.Distribution = append(resp.Charts.Distribution, sliceResponse{Name: s.Name, Value: s.Value})
	}

	resp.Indicators.Savings = toIndicatorResponse(vm.Indicators.Savings)
	resp.Indicators.ExpenseAlert = toIndicatorResponse(vm.Indicators.ExpenseAlert)

	resp.Query.Q = vm.Criteria.Query
	resp.Query.Type = vm.Criteria.Type
	resp.Query.Range = vm.Criteria.Range
	resp.Query.Sort = vm.Order
	resp.GeneratedAt = vm.GeneratedAt

	return resp
}

func toIndicatorResponse(i report.Indicator) indicatorResponse {
	return indicatorResponse{Percent: i.Percent.Round(2), Level: i.Level, Title: i.Title}
}
