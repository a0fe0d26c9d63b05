// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// RegisterRequest holds the fields for creating an account. Username,
// Name, Email, and Password are required; the rest are optional campus
// metadata.
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Branch   string `json:"branch,omitempty"`
	Year     string `json:"year,omitempty"`
	Section  string `json:"section,omitempty"`
}

// Register creates a new account. On success the returned token and
// user record are persisted to the session store — the client is
// logged in immediately, matching the server's register-returns-token
// contract.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*AuthResponse, error) {
	if request.Username == "" || request.Name == "" || request.Email == "" || request.Password == "" {
		return nil, fmt.Errorf("forum: username, name, email, and password are required")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/auth/register", request)
	if err != nil {
		return nil, fmt.Errorf("forum: register failed: %w", err)
	}

	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("forum: parsing register response: %w", err)
	}
	if err := c.saveSession(&auth); err != nil {
		return nil, err
	}

	c.logger.Info("registered forum account",
		"user_id", auth.User.ID,
		"username", auth.User.Username,
	)
	return &auth, nil
}

// Login authenticates with email and password. On success the token
// and user record are persisted to the session store. A 401 here means
// invalid credentials and is returned as a plain *APIError — it does
// not clear the store and does not fire OnSessionExpired.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("forum: email is required for login")
	}
	if password == "" {
		return nil, fmt.Errorf("forum: password is required for login")
	}

	loginRequest := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	body, err := c.doRequest(ctx, http.MethodPost, loginPath, loginRequest)
	if err != nil {
		return nil, fmt.Errorf("forum: login failed: %w", err)
	}

	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("forum: parsing login response: %w", err)
	}
	if err := c.saveSession(&auth); err != nil {
		return nil, err
	}

	c.logger.Info("logged in", "user_id", auth.User.ID, "username", auth.User.Username)
	return &auth, nil
}

// Logout discards the stored session. Client-side only — the server
// has no logout endpoint; the token simply stops being attached.
func (c *Client) Logout() error {
	if err := c.sessions.Clear(); err != nil {
		return fmt.Errorf("forum: clearing session: %w", err)
	}
	return nil
}

// Me returns the authenticated account, including post and comment
// counts.
func (c *Client) Me(ctx context.Context) (*User, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("forum: fetching current user: %w", err)
	}

	var response struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("forum: parsing current user response: %w", err)
	}
	return &response.User, nil
}

// ProfilePage fetches a user's profile page (account fields plus
// recent posts) by numeric user ID.
func (c *Client) ProfilePage(ctx context.Context, userID int64) (*ProfilePage, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/auth/profile/"+strconv.FormatInt(userID, 10), nil)
	if err != nil {
		return nil, fmt.Errorf("forum: fetching profile %d: %w", userID, err)
	}

	var page ProfilePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("forum: parsing profile response: %w", err)
	}
	return &page, nil
}

// UpdateProfileRequest holds the editable account profile fields.
type UpdateProfileRequest struct {
	Name        string `json:"name"`
	Branch      string `json:"branch,omitempty"`
	Year        string `json:"year,omitempty"`
	Bio         string `json:"bio,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	GitHubURL   string `json:"github_url,omitempty"`
}

// UpdateProfile updates the authenticated account's profile, then
// refreshes the cached user record in the session store so the
// persisted copy tracks the server. The refresh is best-effort: a
// failure there is logged, not returned, since the update itself
// succeeded.
func (c *Client) UpdateProfile(ctx context.Context, request UpdateProfileRequest) error {
	if _, err := c.doRequest(ctx, http.MethodPut, "/auth/profile", request); err != nil {
		return fmt.Errorf("forum: updating profile: %w", err)
	}

	current, err := c.Me(ctx)
	if err != nil {
		c.logger.Warn("refreshing cached user after profile update", "error", err)
		return nil
	}
	userJSON, err := json.Marshal(current)
	if err != nil {
		return nil
	}
	if token := c.sessions.Token(); token != "" {
		if err := c.sessions.Set(token, userJSON); err != nil {
			c.logger.Warn("persisting refreshed user record", "error", err)
		}
	}
	return nil
}
