// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Answer asks the assistant to answer the question in a post. The
// server posts the generated answer as a comment from its assistant
// account and returns the text.
func (c *Client) Answer(ctx context.Context, postID int64) (*AIAnswer, error) {
	request := struct {
		PostID int64 `json:"post_id"`
	}{PostID: postID}

	body, err := c.doRequest(ctx, http.MethodPost, "/ai/answer", request)
	if err != nil {
		return nil, fmt.Errorf("forum: requesting answer for post %d: %w", postID, err)
	}

	var answer AIAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, fmt.Errorf("forum: parsing answer response: %w", err)
	}
	return &answer, nil
}

// Summarize asks the assistant for a short summary of a post's
// discussion thread.
func (c *Client) Summarize(ctx context.Context, postID int64) (*AISummary, error) {
	request := struct {
		PostID int64 `json:"post_id"`
	}{PostID: postID}

	body, err := c.doRequest(ctx, http.MethodPost, "/ai/summarize", request)
	if err != nil {
		return nil, fmt.Errorf("forum: requesting summary for post %d: %w", postID, err)
	}

	var summary AISummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("forum: parsing summary response: %w", err)
	}
	return &summary, nil
}

// Moderate asks the assistant whether content is appropriate for the
// forum. The result is advisory: submission endpoints do not run it,
// so callers decide whether to check before posting.
func (c *Client) Moderate(ctx context.Context, content string) (*Moderation, error) {
	if content == "" {
		return nil, fmt.Errorf("forum: content is required")
	}

	request := struct {
		Content string `json:"content"`
	}{Content: content}

	body, err := c.doRequest(ctx, http.MethodPost, "/ai/moderate", request)
	if err != nil {
		return nil, fmt.Errorf("forum: moderating content: %w", err)
	}

	var result Moderation
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("forum: parsing moderation response: %w", err)
	}
	return &result, nil
}

// Enhance asks the assistant to rewrite a draft question for clarity
// and returns the improved text along with what changed.
func (c *Client) Enhance(ctx context.Context, question string) (*Enhancement, error) {
	if question == "" {
		return nil, fmt.Errorf("forum: question is required")
	}

	request := struct {
		Question string `json:"question"`
	}{Question: question}

	body, err := c.doRequest(ctx, http.MethodPost, "/ai/enhance", request)
	if err != nil {
		return nil, fmt.Errorf("forum: enhancing question: %w", err)
	}

	var result Enhancement
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("forum: parsing enhancement response: %w", err)
	}
	return &result, nil
}
