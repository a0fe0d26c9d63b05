// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// UserProfile fetches a public profile by username, including follower
// and post counts.
func (c *Client) UserProfile(ctx context.Context, username string) (*Profile, error) {
	if username == "" {
		return nil, fmt.Errorf("forum: username is required")
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, fmt.Errorf("forum: fetching profile for %q: %w", username, err)
	}

	var response struct {
		User Profile `json:"user"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("forum: parsing user profile response: %w", err)
	}
	return &response.User, nil
}

// ProfileUpdate holds the extended profile fields editable through the
// users endpoint (a superset of UpdateProfileRequest's account fields).
type ProfileUpdate struct {
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Status      string `json:"status,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Year        string `json:"year,omitempty"`
	Section     string `json:"section,omitempty"`
	Skills      string `json:"skills,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	GitHubURL   string `json:"github_url,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// UpdateUserProfile updates the authenticated user's extended profile.
func (c *Client) UpdateUserProfile(ctx context.Context, update ProfileUpdate) error {
	if _, err := c.doRequest(ctx, http.MethodPut, "/users/profile", update); err != nil {
		return fmt.Errorf("forum: updating user profile: %w", err)
	}
	return nil
}

// Follow makes the authenticated user follow the named user.
// Following an already-followed user is a no-op on the server.
func (c *Client) Follow(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("forum: username is required")
	}
	if _, err := c.doRequest(ctx, http.MethodPost, "/users/"+url.PathEscape(username)+"/follow", nil); err != nil {
		return fmt.Errorf("forum: following %q: %w", username, err)
	}
	return nil
}

// Unfollow removes the authenticated user's follow of the named user.
func (c *Client) Unfollow(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("forum: username is required")
	}
	if _, err := c.doRequest(ctx, http.MethodDelete, "/users/"+url.PathEscape(username)+"/follow", nil); err != nil {
		return fmt.Errorf("forum: unfollowing %q: %w", username, err)
	}
	return nil
}

// Followers lists the users following the named user.
func (c *Client) Followers(ctx context.Context, username string) ([]UserSummary, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(username)+"/followers", nil)
	if err != nil {
		return nil, fmt.Errorf("forum: fetching followers of %q: %w", username, err)
	}

	var response struct {
		Followers []UserSummary `json:"followers"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("forum: parsing followers response: %w", err)
	}
	return response.Followers, nil
}

// Following lists the users the named user follows.
func (c *Client) Following(ctx context.Context, username string) ([]UserSummary, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(username)+"/following", nil)
	if err != nil {
		return nil, fmt.Errorf("forum: fetching following of %q: %w", username, err)
	}

	var response struct {
		Following []UserSummary `json:"following"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("forum: parsing following response: %w", err)
	}
	return response.Following, nil
}

// IsFollowing reports whether the authenticated user follows the named
// user.
func (c *Client) IsFollowing(ctx context.Context, username string) (bool, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(username)+"/is-following", nil)
	if err != nil {
		return false, fmt.Errorf("forum: checking follow status of %q: %w", username, err)
	}

	var response struct {
		IsFollowing bool `json:"is_following"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return false, fmt.Errorf("forum: parsing follow status response: %w", err)
	}
	return response.IsFollowing, nil
}
