// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/studyhall-dev/studyhall/lib/clock"
)

// DefaultPollInterval is how often a ConversationPoller refetches
// messages when the caller does not override it.
const DefaultPollInterval = 3 * time.Second

// PollerConfig configures a ConversationPoller.
type PollerConfig struct {
	// ConversationID selects the conversation to poll.
	ConversationID int64

	// OnMessages receives each successfully fetched message list,
	// ordered oldest first. Required. Called from the poller's
	// goroutines; it must be safe to call concurrently with the
	// caller's own work but is never called after Stop returns.
	OnMessages func(messages []Message)

	// Interval between fetches. Defaults to DefaultPollInterval.
	Interval time.Duration

	// Clock used for the poll ticker. Defaults to the real clock.
	Clock clock.Clock

	// Logger for fetch failures. Defaults to the client's logger.
	Logger *slog.Logger
}

// ConversationPoller periodically fetches a conversation's messages
// and delivers them to a callback. Fetches run concurrently with the
// ticker so a slow request never blocks the loop, and a sequence guard
// drops responses that arrive after a newer fetch was issued, so the
// callback only ever moves forward in time.
//
// Start at most once. Refresh triggers an immediate extra fetch
// without disturbing the ticker cadence; Stop halts everything and
// waits for the loop to exit.
type ConversationPoller struct {
	client         *Client
	conversationID int64
	onMessages     func([]Message)
	interval       time.Duration
	clock          clock.Clock
	logger         *slog.Logger

	refresh chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc

	// seq numbers fetches; a fetch commits its result only while it is
	// still the most recently issued one.
	seq atomic.Int64

	// commitMu serializes result delivery with Stop so no callback can
	// begin after Stop observes stopped=true.
	commitMu sync.Mutex
	stopped  bool

	stopOnce sync.Once
}

// PollConversation creates a poller for one conversation. Call Start
// to begin polling.
func (c *Client) PollConversation(config PollerConfig) (*ConversationPoller, error) {
	if config.OnMessages == nil {
		return nil, fmt.Errorf("forum: poller requires an OnMessages callback")
	}
	if config.Interval < 0 {
		return nil, fmt.Errorf("forum: poll interval must not be negative")
	}
	if config.Interval == 0 {
		config.Interval = DefaultPollInterval
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = c.logger
	}

	return &ConversationPoller{
		client:         c,
		conversationID: config.ConversationID,
		onMessages:     config.OnMessages,
		interval:       config.Interval,
		clock:          config.Clock,
		logger:         config.Logger,
		refresh:        make(chan struct{}, 1),
		done:           make(chan struct{}),
	}, nil
}

// Start begins polling: one fetch immediately, then one per interval
// until Stop is called or ctx is cancelled.
func (p *ConversationPoller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

func (p *ConversationPoller) run(ctx context.Context) {
	defer close(p.done)

	go p.fetch(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.fetch(ctx)
		case <-p.refresh:
			go p.fetch(ctx)
		}
	}
}

// fetch retrieves the conversation and, if this fetch is still the
// newest one issued and the poller has not stopped, delivers the
// messages oldest first.
func (p *ConversationPoller) fetch(ctx context.Context) {
	seq := p.seq.Add(1)

	result, err := p.client.Conversation(ctx, p.conversationID)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("conversation poll failed",
				"conversation_id", p.conversationID,
				"error", err)
		}
		return
	}

	// The server returns newest first; the view wants oldest first.
	messages := slices.Clone(result.Messages)
	slices.Reverse(messages)

	p.commitMu.Lock()
	defer p.commitMu.Unlock()
	if p.stopped || p.seq.Load() != seq {
		return
	}
	p.onMessages(messages)
}

// Refresh requests an immediate fetch, typically right after the
// caller sends a message. The regular cadence is unchanged: the next
// scheduled tick still fires on time. If a refresh is already pending
// the call is a no-op.
func (p *ConversationPoller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Stop halts polling and waits for the loop to exit. After Stop
// returns, OnMessages will not be called again. Safe to call more
// than once.
func (p *ConversationPoller) Stop() {
	p.stopOnce.Do(func() {
		p.commitMu.Lock()
		p.stopped = true
		p.commitMu.Unlock()
		if p.cancel != nil {
			p.cancel()
			<-p.done
		}
	})
}
