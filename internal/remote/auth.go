package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

type Auth struct {
	c *Client
}

// LoginResult is what the API returns for valid credentials.
type LoginResult struct {
	Token string
	User  ledger.User
}

// Login exchanges credentials for a bearer token. Credentials are checked by the API.
func (a *Auth) Login(ctx context.Context, email, password string) (LoginResult, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var out struct {
		Token string  `json:"token"`
		User  userDTO `json:"user"`
	}

	if err := a.c.do(ctx, http.MethodPost, "/login", in, &out, "Erro ao fazer login"); err != nil {
		return LoginResult{}, fmt.Errorf("logging in: %w", err)
	}

	return LoginResult{
		Token: out.Token,
		User:  out.User.toLedger(),
	}, nil
}
