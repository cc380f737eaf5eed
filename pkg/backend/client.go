// Package backend is the HTTP/JSON client for the authoritative POS backend.
// The terminal never trusts its own ledger arithmetic for durable state: every
// mutating operation round-trips here and local state is replaced by the
// response.
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
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mohamed-hwerthi/easy-pos/pkg/config"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/metrics"
)

// AuthInvalidator is notified when the backend rejects the bearer token so
// cached credentials can be dropped before the error reaches the UI.
type AuthInvalidator interface {
	InvalidateAuth(ctx context.Context)
}

// Client talks to the remote POS backend with a bearer token attached to
// every request.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
	metrics *metrics.TerminalMetrics

	mu          sync.RWMutex
	token       string
	invalidator AuthInvalidator
}

// New builds a backend client from configuration.
func New(cfg config.BackendConfig, logg *logger.Logger, m *metrics.TerminalMetrics) (*Client, error) {
	if logg == nil {
		return nil, fmt.Errorf("backend logger is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logg:    logg,
		metrics: m,
	}, nil
}

// SetAuthInvalidator registers the hook fired on 401 responses.
func (c *Client) SetAuthInvalidator(inv AuthInvalidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidator = inv
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken drops the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the current bearer token, empty when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// TokenExpired reports whether the current token is absent or carries an
// exp claim in the past. The signature is not verified; this is a local
// pre-check so an obviously dead session fails before the network call.
func (c *Client) TokenExpired() bool {
	token := c.Token()
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are passed through; the backend decides.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, dest any) error {
	if c.Token() != "" && c.TokenExpired() {
		c.ClearToken()
		c.invalidateAuth(ctx)
		return pkgerrors.New(pkgerrors.CodeSessionExpired, "bearer token expired")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveBackendCall(operation, time.Since(start))
	if err != nil {
		c.metrics.IncBackendError(operation)
		return pkgerrors.Wrap(pkgerrors.CodeRemoteRejection, err, operation)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.metrics.IncBackendError(operation)
		return c.mapFailure(ctx, operation, resp)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteRejection, err, "decode "+operation+" response")
	}
	return nil
}

func (c *Client) mapFailure(ctx context.Context, operation string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := strings.TrimSpace(string(snippet))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.ClearToken()
		c.invalidateAuth(ctx)
		return pkgerrors.New(pkgerrors.CodeSessionExpired, operation+" rejected: authentication invalid")
	case http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, operation+": resource not found")
	}

	err := pkgerrors.New(pkgerrors.CodeRemoteRejection,
		fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode))
	if detail != "" {
		err = err.WithDetails(map[string]any{"body": detail})
	}
	return err
}

func (c *Client) invalidateAuth(ctx context.Context) {
	c.mu.RLock()
	inv := c.invalidator
	c.mu.RUnlock()
	if inv != nil {
		inv.InvalidateAuth(ctx)
	}
}
