package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

type Users struct {
	c *Client
}

func (u *Users) FindByID(ctx context.Context, id int64) (ledger.User, error) {
	var out userDTO

	path := fmt.Sprintf("/users/%d", id)
	if err := u.c.do(ctx, http.MethodGet, path, nil, &out, fmt.Sprintf("Usuário com ID %d não encontrado", id)); err != nil {
		return ledger.User{}, fmt.Errorf("getting user %d: %w", id, err)
	}

	return out.toLedger(), nil
}

// Insert registers a new user. The API hashes the password.
func (u *Users) Insert(ctx context.Context, user ledger.User, password string) (ledger.User, error) {
	var out userDTO
	if err := u.c.do(ctx, http.MethodPost, "/users", userFromLedger(user, password), &out, "Erro ao criar usuário"); err != nil {
		return ledger.User{}, fmt.Errorf("creating user: %w", err)
	}

	return out.toLedger(), nil
}

// Update replaces the profile of user.ID. An empty password keeps the current one.
func (u *Users) Update(ctx context.Context, user ledger.User, password string) (ledger.User, error) {
	var out userDTO

	path := fmt.Sprintf("/users/%d", user.ID)
	if err := u.c.do(ctx, http.MethodPut, path, userFromLedger(user, password), &out, fmt.Sprintf("Erro ao atualizar usuário %d", user.ID)); err != nil {
		return ledger.User{}, fmt.Errorf("updating user %d: %w", user.ID, err)
	}

	return out.toLedger(), nil
}
