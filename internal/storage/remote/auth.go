package remote

import (
	"context"
	"net/http"

	"github.com/julianstephens/weekslot/internal/models"
)

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Login exchanges a username and password for a token pair and starts using it.
func (c *Client) Login(ctx context.Context, username, password string) (models.TokenPair, error) {
	var tokens models.TokenPair
	// Stale credentials must not be sent to the token endpoint.
	prev := c.Tokens()
	c.SetTokens(models.TokenPair{})
	if err := c.do(ctx, "login", http.MethodPost, "auth/token/", nil, credentials{Username: username, Password: password}, &tokens); err != nil {
		c.SetTokens(prev)
		return models.TokenPair{}, err
	}
	c.SetTokens(tokens)
	return tokens, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.do(ctx, "register", http.MethodPost, "auth/register/", nil, credentials{Username: username, Email: email, Password: password}, nil)
}
