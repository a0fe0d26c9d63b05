// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/studyhall-dev/studyhall/lib/httpx"
	"github.com/studyhall-dev/studyhall/lib/session"
)

// loginPath is the one endpoint whose 401 does NOT mean session
// expiry: a failed login is "invalid credentials" and must be returned
// to the caller untouched, or every typo on the login form would wipe
// the stored session.
const loginPath = "/auth/login"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the API root (e.g., "http://localhost:5000/api").
	BaseURL string

	// Sessions is the credential store consulted before every request
	// and cleared on session expiry. Required.
	Sessions *session.Store

	// OnSessionExpired is invoked at most once when a non-login call
	// returns 401. The CLI points this at its "run 'studyhall login'"
	// notice; a UI would navigate to its login view. May be nil.
	OnSessionExpired func()

	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is the single boundary for every forum API call. All resource
// operations (auth, posts, comments, conversations, profiles, AI) are
// methods on it and dispatch through doRequest.
//
// Client is safe for concurrent use.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	logger           *slog.Logger
	sessions         *session.Store
	onSessionExpired func()

	// expired latches when a non-login 401 fires the expiry handling,
	// so concurrent failing calls produce exactly one OnSessionExpired
	// invocation. A successful login resets it.
	expired atomic.Bool
}

// NewClient creates a forum API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("forum: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("forum: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if config.Sessions == nil {
		return nil, fmt.Errorf("forum: Sessions store is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:          strings.TrimRight(config.BaseURL, "/"),
		httpClient:       httpClient,
		logger:           logger,
		sessions:         config.Sessions,
		onSessionExpired: config.OnSessionExpired,
	}, nil
}

// CloseIdleConnections closes idle connections in the underlying
// transport's pool. Call after a network disruption so subsequent
// requests open fresh sockets instead of reusing a poisoned one.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs one HTTP request and returns the response body.
// On 2xx, returns the body. On any other status, returns an *APIError.
// The bearer token is attached when the session store holds one;
// otherwise the request goes out unauthenticated.
// query may be omitted for endpoints without query parameters.
func (c *Client) doRequest(ctx context.Context, method, path string, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("forum: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("forum: creating request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.sessions.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("forum: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := httpx.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("forum: reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// Error responses carry {"error": "..."}. A non-JSON body (proxy
	// error page, empty body) still yields a typed error with the raw
	// text preserved.
	apiErr := &APIError{StatusCode: response.StatusCode}
	var serverError struct {
		Error string `json:"error"`
	}
	if jsonErr := json.Unmarshal(responseBody, &serverError); jsonErr == nil && serverError.Error != "" {
		apiErr.Message = serverError.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(responseBody))
	}

	if response.StatusCode == http.StatusUnauthorized && path != loginPath {
		c.sessionExpired(method, path)
	}

	return responseBody, apiErr
}

// sessionExpired handles a 401 from a non-login endpoint: the token is
// no longer honored, so the stored session is cleared and the expiry
// hook fires. The hook fires at most once no matter how many in-flight
// calls hit 401 together, and never from the login endpoint, so it
// cannot recurse into itself.
func (c *Client) sessionExpired(method, path string) {
	if err := c.sessions.Clear(); err != nil {
		c.logger.Warn("clearing expired session", "error", err)
	}
	if c.expired.CompareAndSwap(false, true) {
		c.logger.Info("session expired", "method", method, "path", path)
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
	}
}

// saveSession persists the token and user record from a successful
// login or registration, and re-arms the expiry hook for the new
// session.
func (c *Client) saveSession(auth *AuthResponse) error {
	userJSON, err := json.Marshal(auth.User)
	if err != nil {
		return fmt.Errorf("forum: encoding user record: %w", err)
	}
	if err := c.sessions.Set(auth.Token, userJSON); err != nil {
		return fmt.Errorf("forum: persisting session: %w", err)
	}
	c.expired.Store(false)
	return nil
}
