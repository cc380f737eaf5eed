package backend

import (
	"context"
	"net/http"

	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
)

// LoginInput is the cashier's credential pair.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the issued token and the authenticated cashier.
type LoginResult struct {
	Token   string         `json:"token"`
	Cashier models.Cashier `json:"user"`
}

// Login authenticates the cashier and installs the returned token on the
// client.
func (c *Client) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	var result LoginResult
	if err := c.do(ctx, "auth.login", http.MethodPost, "/auth/login", nil, input, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Logout drops the bearer token; the backend session is left to expire.
func (c *Client) Logout() {
	c.ClearToken()
}
