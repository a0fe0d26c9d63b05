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

// Conversations lists the authenticated user's conversations, most
// recently active first.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/conversations", nil)
	if err != nil {
		return nil, fmt.Errorf("forum: listing conversations: %w", err)
	}

	var response struct {
		Conversations []Conversation `json:"conversations"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("forum: parsing conversations response: %w", err)
	}
	return response.Conversations, nil
}

// Conversation fetches a conversation's messages, newest-first as the
// server delivers them. Fetching also marks the conversation read for
// the authenticated user (server-side effect).
func (c *Client) Conversation(ctx context.Context, conversationID int64) (*ConversationMessages, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/conversations/"+strconv.FormatInt(conversationID, 10), nil)
	if err != nil {
		return nil, fmt.Errorf("forum: fetching conversation %d: %w", conversationID, err)
	}

	var messages ConversationMessages
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("forum: parsing conversation response: %w", err)
	}
	return &messages, nil
}

// StartConversation opens (or returns the existing) direct
// conversation with another user and returns its ID.
func (c *Client) StartConversation(ctx context.Context, userID int64) (int64, error) {
	startRequest := struct {
		UserID int64 `json:"user_id"`
	}{UserID: userID}

	body, err := c.doRequest(ctx, http.MethodPost, "/conversations/start", startRequest)
	if err != nil {
		return 0, fmt.Errorf("forum: starting conversation with user %d: %w", userID, err)
	}

	var response struct {
		ConversationID int64 `json:"conversation_id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("forum: parsing start conversation response: %w", err)
	}
	return response.ConversationID, nil
}

// SendMessage posts a message to a conversation and returns the
// created record. Sending and polling are independent: callers that
// poll should trigger ConversationPoller.Refresh after a send to show
// the new message before the next scheduled tick.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, content string) (*Message, error) {
	if content == "" {
		return nil, fmt.Errorf("forum: message content is required")
	}

	messageRequest := struct {
		Content string `json:"content"`
	}{Content: content}

	body, err := c.doRequest(ctx, http.MethodPost, "/conversations/"+strconv.FormatInt(conversationID, 10)+"/messages", messageRequest)
	if err != nil {
		return nil, fmt.Errorf("forum: sending message to conversation %d: %w", conversationID, err)
	}

	var response struct {
		Message Message `json:"message"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("forum: parsing send message response: %w", err)
	}
	return &response.Message, nil
}

// EditMessage replaces a sent message's content. Only the sender may
// edit; the server enforces this.
func (c *Client) EditMessage(ctx context.Context, messageID int64, content string) error {
	if content == "" {
		return fmt.Errorf("forum: message content is required")
	}

	messageRequest := struct {
		Content string `json:"content"`
	}{Content: content}

	if _, err := c.doRequest(ctx, http.MethodPut, "/messages/"+strconv.FormatInt(messageID, 10), messageRequest); err != nil {
		return fmt.Errorf("forum: editing message %d: %w", messageID, err)
	}
	return nil
}

// DeleteMessage removes a sent message.
func (c *Client) DeleteMessage(ctx context.Context, messageID int64) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/messages/"+strconv.FormatInt(messageID, 10), nil); err != nil {
		return fmt.Errorf("forum: deleting message %d: %w", messageID, err)
	}
	return nil
}

// UnreadCount returns the total number of unread messages across all
// conversations.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/messages/unread-count", nil)
	if err != nil {
		return 0, fmt.Errorf("forum: fetching unread count: %w", err)
	}

	var response struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("forum: parsing unread count response: %w", err)
	}
	return response.UnreadCount, nil
}
