package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

type Accounts struct {
	c *Client
}

func (a *Accounts) FindAll(ctx context.Context) ([]ledger.Account, error) {
	var out []accountDTO
	if err := a.c.do(ctx, http.MethodGet, "/accounts", nil, &out, "Erro ao buscar contas"); err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	return accountsToLedger(out, a.c.loc), nil
}

func (a *Accounts) FindByID(ctx context.Context, id int64) (ledger.Account, error) {
	var out accountDTO

	path := fmt.Sprintf("/accounts/%d", id)
	if err := a.c.do(ctx, http.MethodGet, path, nil, &out, fmt.Sprintf("Conta com ID %d não encontrada", id)); err != nil {
		return ledger.Account{}, fmt.Errorf("getting account %d: %w", id, err)
	}

	return out.toLedger(a.c.loc), nil
}

// FindByUser lists the accounts of one user, transactions included.
func (a *Accounts) FindByUser(ctx context.Context, userID int64) ([]ledger.Account, error) {
	var out []accountDTO

	path := fmt.Sprintf("/users/%d/accounts", userID)
	if err := a.c.do(ctx, http.MethodGet, path, nil, &out, fmt.Sprintf("Erro ao buscar contas do usuário %d", userID)); err != nil {
		return nil, fmt.Errorf("listing accounts of user %d: %w", userID, err)
	}

	accounts := accountsToLedger(out, a.c.loc)
	for i := range accounts {
		if accounts[i].OwnerID == 0 {
			accounts[i].OwnerID = userID
		}
	}

	return accounts, nil
}

func (a *Accounts) Insert(ctx context.Context, account ledger.Account) (ledger.Account, error) {
	var out accountDTO
	if err := a.c.do(ctx, http.MethodPost, "/accounts", accountFromLedger(account), &out, "Erro ao criar conta"); err != nil {
		return ledger.Account{}, fmt.Errorf("creating account: %w", err)
	}

	return out.toLedger(a.c.loc), nil
}

func (a *Accounts) Update(ctx context.Context, account ledger.Account) (ledger.Account, error) {
	var out accountDTO

	path := fmt.Sprintf("/accounts/%d", account.ID)
	if err := a.c.do(ctx, http.MethodPut, path, accountFromLedger(account), &out, fmt.Sprintf("Erro ao atualizar conta %d", account.ID)); err != nil {
		return ledger.Account{}, fmt.Errorf("updating account %d: %w", account.ID, err)
	}

	return out.toLedger(a.c.loc), nil
}

func (a *Accounts) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/accounts/%d", id)
	if err := a.c.do(ctx, http.MethodDelete, path, nil, nil, fmt.Sprintf("Erro ao excluir conta %d", id)); err != nil {
		return fmt.Errorf("deleting account %d: %w", id, err)
	}

	return nil
}
