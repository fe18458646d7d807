package api

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the bearer credential returned by a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. The client itself stores no
// token; the caller persists it through its own TokenSource.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	var out Token
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Username: username, Password: password}, &out)
	return out, err
}
