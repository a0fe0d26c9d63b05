// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Vote directions accepted by the vote endpoint. Repeating the same
// vote removes it (server-side toggle); the opposite vote switches it.
const (
	VoteUp   = 1
	VoteDown = -1
)

// ListPostsOptions filters and orders the post listing. Zero values
// mean "no filter" and the server's default sort (latest).
type ListPostsOptions struct {
	// Search matches against title and content.
	Search string
	// Subject restricts to one of the server's subject categories.
	Subject string
	// Sort is "latest", "top", or "discussed".
	Sort string
}

// Posts fetches the post listing.
func (c *Client) Posts(ctx context.Context, options ListPostsOptions) (*PostList, error) {
	query := url.Values{}
	if options.Search != "" {
		query.Set("search", options.Search)
	}
	if options.Subject != "" {
		query.Set("subject", options.Subject)
	}
	if options.Sort != "" {
		query.Set("sort", options.Sort)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/posts", nil, query)
	if err != nil {
		return nil, fmt.Errorf("forum: listing posts: %w", err)
	}

	var list PostList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("forum: parsing post list: %w", err)
	}
	return &list, nil
}

// Post fetches a single post with its comment tree. Viewing counts:
// the server increments the post's view counter on every call.
func (c *Client) Post(ctx context.Context, postID int64) (*PostDetail, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/posts/"+strconv.FormatInt(postID, 10), nil)
	if err != nil {
		return nil, fmt.Errorf("forum: fetching post %d: %w", postID, err)
	}

	var detail PostDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("forum: parsing post response: %w", err)
	}
	return &detail, nil
}

// PostInput holds the writable fields of a post. All three are
// required by the server.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Subject string `json:"subject"`
}

// CreatePost publishes a new post and returns the created record.
func (c *Client) CreatePost(ctx context.Context, input PostInput) (*Post, error) {
	if input.Title == "" || input.Content == "" || input.Subject == "" {
		return nil, fmt.Errorf("forum: title, content, and subject are required")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/posts", input)
	if err != nil {
		return nil, fmt.Errorf("forum: creating post: %w", err)
	}

	var response struct {
		Post Post `json:"post"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("forum: parsing create post response: %w", err)
	}

	c.logger.Info("created post", "post_id", response.Post.ID, "subject", response.Post.Subject)
	return &response.Post, nil
}

// UpdatePost replaces a post's title, content, and subject. Only the
// post's owner may update it; the server enforces this.
func (c *Client) UpdatePost(ctx context.Context, postID int64, input PostInput) error {
	if input.Title == "" || input.Content == "" || input.Subject == "" {
		return fmt.Errorf("forum: title, content, and subject are required")
	}
	if _, err := c.doRequest(ctx, http.MethodPut, "/posts/"+strconv.FormatInt(postID, 10), input); err != nil {
		return fmt.Errorf("forum: updating post %d: %w", postID, err)
	}
	return nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/posts/"+strconv.FormatInt(postID, 10), nil); err != nil {
		return fmt.Errorf("forum: deleting post %d: %w", postID, err)
	}
	return nil
}

// Vote casts, switches, or (when repeating the current vote) removes a
// vote on a post. voteType must be VoteUp or VoteDown. Returns the
// updated tally.
func (c *Client) Vote(ctx context.Context, postID int64, voteType int) (*VoteResult, error) {
	if voteType != VoteUp && voteType != VoteDown {
		return nil, fmt.Errorf("forum: vote type must be %d or %d, got %d", VoteUp, VoteDown, voteType)
	}

	voteRequest := struct {
		VoteType int `json:"vote_type"`
	}{VoteType: voteType}

	body, err := c.doRequest(ctx, http.MethodPost, "/posts/"+strconv.FormatInt(postID, 10)+"/vote", voteRequest)
	if err != nil {
		return nil, fmt.Errorf("forum: voting on post %d: %w", postID, err)
	}

	var result VoteResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("forum: parsing vote response: %w", err)
	}
	return &result, nil
}
