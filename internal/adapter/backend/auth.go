package backend

import (
	"context"
	"errors"
	"net/http"

	"balance-dashboard/internal/core/domain"
	"balance-dashboard/pkg/apperror"
)

var errMissingAccessToken = errors.New("response carries no access_token")

// Login exchanges credentials for a token. Persisting it and updating the
// session is left to the caller.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.Token, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

// Register creates a user and returns its first token.
func (c *Client) Register(ctx context.Context, creds domain.Credentials) (*domain.Token, error) {
	return c.authenticate(ctx, "/auth/register", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds domain.Credentials) (*domain.Token, error) {
	token, err := doJSON[domain.Token](ctx, c, Request{Method: http.MethodPost, Path: path, Body: creds})
	if err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, apperror.ErrDecode(errMissingAccessToken)
	}
	return &token, nil
}
