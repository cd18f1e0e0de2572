// Package client is the consumer-side SDK for the asset tracking backend.
// It owns the session lifecycle, an in-memory index of reference entities,
// the movement ledger views and the refresh plan that keeps them current
// after mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"garrison/internal/access"
	"garrison/internal/utils/logger"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *logger.Logger

	Sessions *SessionStore
	Index    *EntityIndex
	Ledger   *LedgerView
}

// New builds a client for the backend at baseURL. credentialPath names the
// file the session is persisted to between runs.
func New(baseURL, credentialPath string) *Client {
	return NewWithHTTPClient(baseURL, credentialPath, http.DefaultClient)
}

func NewWithHTTPClient(baseURL, credentialPath string, httpc *http.Client) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   httpc,
		logger:  logger.New("client"),
	}
	c.Sessions = NewSessionStore(baseURL, credentialPath, httpc)
	c.Index = newEntityIndex(c)
	c.Ledger = newLedgerView(c)
	c.Sessions.Subscribe(func(s *Session) {
		if s == nil {
			c.Index.Clear()
		}
	})
	return c
}

// Authorize returns nil when the current role may access resource, an
// AccessDeniedError when it may not. A logged-out client is denied
// everything.
func (c *Client) Authorize(resource access.Resource) error {
	role := c.Sessions.Role()
	if access.CanAccess(role, resource) {
		return nil
	}
	return &AccessDeniedError{Role: role, Resource: resource}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do performs one authenticated call. A transport failure maps to a
// network FetchError; a 401 maps to an unauthorized FetchError and forces
// a logout so no view keeps rendering with a dead token.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &FetchError{Kind: "network", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &FetchError{Kind: "network", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &FetchError{Kind: "network", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.logger.Warn("Token rejected by %s, clearing session", path)
		c.Sessions.Logout()
		return &FetchError{Kind: "unauthorized"}
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: %s", method, path, remoteError(resp.Body, resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Kind: "network", Err: err}
	}
	return nil
}

func remoteError(body io.Reader, status int) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return http.StatusText(status)
}
