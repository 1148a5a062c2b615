package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

type Transactions struct {
	c *Client
}

func (t *Transactions) FindAll(ctx context.Context) ([]ledger.Transaction, error) {
	var out []transactionDTO
	if err := t.c.do(ctx, http.MethodGet, "/Transactions", nil, &out, "Erro ao buscar transações"); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return transactionsToLedger(out, t.c.loc), nil
}

func (t *Transactions) FindByID(ctx context.Context, id int64) (ledger.Transaction, error) {
	var out transactionDTO

	path := fmt.Sprintf("/Transactions/%d", id)
	if err := t.c.do(ctx, http.MethodGet, path, nil, &out, fmt.Sprintf("Transação com ID %d não encontrada", id)); err != nil {
		return ledger.Transaction{}, fmt.Errorf("getting transaction %d: %w", id, err)
	}

	return out.toLedger(t.c.loc), nil
}

func (t *Transactions) FindByAccountID(ctx context.Context, accountID int64) ([]ledger.Transaction, error) {
	var out []transactionDTO

	path := fmt.Sprintf("/accounts/%d/Transactions", accountID)
	if err := t.c.do(ctx, http.MethodGet, path, nil, &out, fmt.Sprintf("Erro ao buscar transações da conta %d", accountID)); err != nil {
		return nil, fmt.Errorf("listing transactions of account %d: %w", accountID, err)
	}

	txs := transactionsToLedger(out, t.c.loc)
	for i := range txs {
		if txs[i].AccountID == 0 {
			txs[i].AccountID = accountID
		}
	}

	return txs, nil
}

func (t *Transactions) Insert(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	var out transactionDTO
	if err := t.c.do(ctx, http.MethodPost, "/Transactions", transactionFromLedger(tx), &out, "Erro ao criar transação"); err != nil {
		return ledger.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}

	return out.toLedger(t.c.loc), nil
}

func (t *Transactions) Update(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	var out transactionDTO

	path := fmt.Sprintf("/Transactions/%d", tx.ID)
	if err := t.c.do(ctx, http.MethodPut, path, transactionFromLedger(tx), &out, fmt.Sprintf("Erro ao atualizar transação %d", tx.ID)); err != nil {
		return ledger.Transaction{}, fmt.Errorf("updating transaction %d: %w", tx.ID, err)
	}

	return out.toLedger(t.c.loc), nil
}

func (t *Transactions) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/Transactions/%d", id)
	if err := t.c.do(ctx, http.MethodDelete, path, nil, nil, fmt.Sprintf("Erro ao excluir transação %d", id)); err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}

	return nil
}
