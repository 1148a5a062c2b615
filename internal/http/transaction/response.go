package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

type transactionResponse struct {
	ID           int64             `json:"id"`
	AccountID    int64             `json:"account_id"`
	Description  string            `json:"description"`
	Amount       decimal.Decimal   `json:"amount"`
	Type         ledger.Type       `json:"type"`
	CreationDate time.Time         `json:"creation_date"`
	Category     *categoryResponse `json:"category,omitempty"`
	Responsible  string            `json:"responsible,omitempty"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

func toResponse(tx ledger.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:           tx.ID,
		AccountID:    tx.AccountID,
		Description:  tx.Description,
		Amount:       tx.Amount,
		Type:         tx.Type,
		CreationDate: tx.CreationDate,
		Responsible:  tx.Responsible,
	}

	if tx.Category != nil {
		resp.Category = &categoryResponse{
			ID:   tx.Category.ID,
			Name: tx.Category.Name,
		}
	}

	return resp
}
