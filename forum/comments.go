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

// CreateComment adds a comment to a post. parentID is the comment
// being replied to, or 0 for a top-level comment.
//
// Note: submission does not run the content through Moderate — the
// moderation helper exists as a separate callable only.
func (c *Client) CreateComment(ctx context.Context, postID int64, content string, parentID int64) (*Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("forum: comment content is required")
	}

	commentRequest := struct {
		Content  string `json:"content"`
		ParentID int64  `json:"parent_id,omitempty"`
	}{Content: content, ParentID: parentID}

	body, err := c.doRequest(ctx, http.MethodPost, "/posts/"+strconv.FormatInt(postID, 10)+"/comments", commentRequest)
	if err != nil {
		return nil, fmt.Errorf("forum: commenting on post %d: %w", postID, err)
	}

	var response struct {
		Comment Comment `json:"comment"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("forum: parsing comment response: %w", err)
	}
	return &response.Comment, nil
}

// UpdateComment replaces a comment's content.
func (c *Client) UpdateComment(ctx context.Context, commentID int64, content string) error {
	if content == "" {
		return fmt.Errorf("forum: comment content is required")
	}

	commentRequest := struct {
		Content string `json:"content"`
	}{Content: content}

	if _, err := c.doRequest(ctx, http.MethodPut, "/comments/"+strconv.FormatInt(commentID, 10), commentRequest); err != nil {
		return fmt.Errorf("forum: updating comment %d: %w", commentID, err)
	}
	return nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/comments/"+strconv.FormatInt(commentID, 10), nil); err != nil {
		return fmt.Errorf("forum: deleting comment %d: %w", commentID, err)
	}
	return nil
}
