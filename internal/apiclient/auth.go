package apiclient

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Usuario  string `json:"usuario"`
	Senha    string `json:"senha"`
	Confirma string `json:"confirma"`
}

// Login exchanges credentials for a bearer token. Storing the token in
// the session is the caller's decision, not the client's.
func (c *Client) Login(ctx context.Context, usuario, senha string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/app/login", loginRequest{
		Usuario: usuario,
		Senha:   senha,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, usuario, senha, confirma string) error {
	return c.do(ctx, http.MethodPost, "/app/registrar", registerRequest{
		Usuario:  usuario,
		Senha:    senha,
		Confirma: confirma,
	}, nil)
}
