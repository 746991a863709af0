// Package backend is the session-aware HTTP client of the accounts backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"balance-dashboard/internal/core/ports"
	"balance-dashboard/internal/session"
	"balance-dashboard/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID carries the per-call correlation ID.
const HeaderRequestID = "X-Request-ID"

// maxErrorBody caps how much of a failed response is read into the message.
const maxErrorBody = 64 << 10

// Request describes one backend call.
type Request struct {
	Method string
	Path   string     // resolved against the base URL
	Query  url.Values // optional
	Body   any        // JSON-encoded when non-nil
	Header http.Header
}

// Client implements ports.BackendClient.
type Client struct {
	baseURL    *url.URL
	httpClient ports.HTTPClient
	session    *session.Session
	store      ports.TokenStore
	nav        ports.Navigator
	log        zerolog.Logger
}

var _ ports.BackendClient = (*Client)(nil)

// NewClient creates a backend client. The session is read at call-issue
// time; store and nav are used by the 401 transition only.
func NewClient(
	baseURL string,
	httpClient ports.HTTPClient,
	sess *session.Session,
	store ports.TokenStore,
	nav ports.Navigator,
	log zerolog.Logger,
) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		session:    sess,
		store:      store,
		nav:        nav,
		log:        log,
	}, nil
}

// Do performs req and, on a 2xx response, decodes the JSON body into out
// (skipped when out is nil).
//
// A 401 clears the session and the persisted token, moves the user to the
// login view and fails with apperror.ErrUnauthorized. The call is never
// retried. Other non-2xx responses fail with the body text as message.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	token := c.session.Token()

	httpReq, err := c.newRequest(ctx, req, token)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).
			Str("method", httpReq.Method).
			Str("path", httpReq.URL.Path).
			Str("request_id", httpReq.Header.Get(HeaderRequestID)).
			Msg("backend request failed")
		return apperror.ErrNetwork(err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", httpReq.Method).
		Str("path", httpReq.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", httpReq.Header.Get(HeaderRequestID)).
		Msg("backend request")

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire(ctx, token)
		return apperror.ErrUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return apperror.ErrNetwork(err)
		}
		return apperror.ErrHTTP(resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.ErrDecode(err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request, token string) (*http.Request, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeValidation, "encoding request body", http.StatusBadRequest, err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, apperror.ErrNetwork(err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	return httpReq, nil
}

// expire runs the 401 transition for the token the failed call was issued
// with. Only the first caller to observe a given token performs it.
func (c *Client) expire(ctx context.Context, token string) {
	if !c.session.Expire(token) {
		return
	}

	c.log.Info().Msg("session rejected by backend, signing out")

	// The persisted slot must be cleared even if the caller has gone away.
	if err := c.store.Remove(context.WithoutCancel(ctx)); err != nil {
		c.log.Error().Err(err).Msg("failed to remove persisted token")
	}
	c.nav.ToLogin(ctx)
}

// doJSON performs req and returns the decoded body.
func doJSON[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	if err := c.Do(ctx, req, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
