// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/studyhall-dev/studyhall/lib/clock"
)

// conversationHandler serves GET /conversations/1 with the given
// newest-first message list and counts requests.
func conversationHandler(t *testing.T, requests *atomic.Int64, messages func() []Message) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		requests.Add(1)
		response := ConversationMessages{Messages: messages()}
		response.Conversation.ID = 1
		writeJSON(t, w, http.StatusOK, response)
	})
}

func TestPollConversationValidation(t *testing.T) {
	client, _, _ := newTestClient(t, http.NotFoundHandler())

	t.Run("requires callback", func(t *testing.T) {
		if _, err := client.PollConversation(PollerConfig{ConversationID: 1}); err == nil {
			t.Fatal("expected error for missing OnMessages")
		}
	})

	t.Run("rejects negative interval", func(t *testing.T) {
		_, err := client.PollConversation(PollerConfig{
			ConversationID: 1,
			OnMessages:     func([]Message) {},
			Interval:       -time.Second,
		})
		if err == nil {
			t.Fatal("expected error for negative interval")
		}
	})
}

func TestPollerDeliversOldestFirst(t *testing.T) {
	var requests atomic.Int64
	client, _, _ := newTestClient(t, conversationHandler(t, &requests, func() []Message {
		return []Message{
			{ID: 3, Content: "latest"},
			{ID: 2, Content: "middle"},
			{ID: 1, Content: "first"},
		}
	}))

	deliveries := make(chan []Message, 8)
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	poller, err := client.PollConversation(PollerConfig{
		ConversationID: 1,
		OnMessages:     func(messages []Message) { deliveries <- messages },
		Clock:          fake,
	})
	if err != nil {
		t.Fatalf("PollConversation: %v", err)
	}
	poller.Start(context.Background())
	defer poller.Stop()

	got := <-deliveries
	want := []int64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("delivered %d messages, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("message[%d].ID = %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestPollerTicksAtInterval(t *testing.T) {
	var requests atomic.Int64
	client, _, _ := newTestClient(t, conversationHandler(t, &requests, func() []Message {
		return nil
	}))

	deliveries := make(chan []Message, 8)
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	poller, err := client.PollConversation(PollerConfig{
		ConversationID: 1,
		OnMessages:     func(messages []Message) { deliveries <- messages },
		Clock:          fake,
	})
	if err != nil {
		t.Fatalf("PollConversation: %v", err)
	}
	poller.Start(context.Background())
	defer poller.Stop()

	<-deliveries // immediate fetch, before any time passes
	fake.WaitForTimers(1)

	fake.Advance(DefaultPollInterval)
	<-deliveries
	fake.Advance(DefaultPollInterval)
	<-deliveries

	if n := requests.Load(); n != 3 {
		t.Errorf("server saw %d requests, want 3", n)
	}
}

func TestPollerRefreshKeepsCadence(t *testing.T) {
	var requests atomic.Int64
	client, _, _ := newTestClient(t, conversationHandler(t, &requests, func() []Message {
		return nil
	}))

	deliveries := make(chan []Message, 8)
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	poller, err := client.PollConversation(PollerConfig{
		ConversationID: 1,
		OnMessages:     func(messages []Message) { deliveries <- messages },
		Clock:          fake,
	})
	if err != nil {
		t.Fatalf("PollConversation: %v", err)
	}
	poller.Start(context.Background())
	defer poller.Stop()

	<-deliveries
	fake.WaitForTimers(1)

	// A refresh two seconds into the interval must not push the next
	// scheduled tick back: it still fires one second later.
	fake.Advance(2 * time.Second)
	poller.Refresh()
	<-deliveries

	fake.Advance(1 * time.Second)
	<-deliveries

	if n := requests.Load(); n != 3 {
		t.Errorf("server saw %d requests, want 3", n)
	}
}

func TestPollerStop(t *testing.T) {
	var requests atomic.Int64
	client, _, _ := newTestClient(t, conversationHandler(t, &requests, func() []Message {
		return nil
	}))

	deliveries := make(chan []Message, 8)
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	poller, err := client.PollConversation(PollerConfig{
		ConversationID: 1,
		OnMessages:     func(messages []Message) { deliveries <- messages },
		Clock:          fake,
	})
	if err != nil {
		t.Fatalf("PollConversation: %v", err)
	}
	poller.Start(context.Background())

	<-deliveries
	fake.WaitForTimers(1)

	poller.Stop()
	poller.Stop() // idempotent

	before := requests.Load()
	fake.Advance(10 * DefaultPollInterval)
	if n := requests.Load(); n != before {
		t.Errorf("server saw %d requests after Stop, want %d", n, before)
	}
	select {
	case messages := <-deliveries:
		t.Errorf("delivery after Stop: %v", messages)
	default:
	}
}

func TestPollerDropsLateResponses(t *testing.T) {
	// The first request stalls until released; a refresh completes in
	// the meantime. When the stalled response finally lands it is no
	// longer the newest fetch and must not reach the callback.
	release := make(chan struct{})
	firstArrived := make(chan struct{})
	firstDone := make(chan struct{})
	var requests atomic.Int64
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		var response ConversationMessages
		response.Conversation.ID = 1
		if n == 1 {
			close(firstArrived)
			<-release
			response.Messages = []Message{{ID: 1, Content: "stale"}}
			writeJSON(t, w, http.StatusOK, response)
			close(firstDone)
			return
		}
		response.Messages = []Message{{ID: 2, Content: "fresh"}, {ID: 1, Content: "stale"}}
		writeJSON(t, w, http.StatusOK, response)
	}))

	deliveries := make(chan []Message, 8)
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	poller, err := client.PollConversation(PollerConfig{
		ConversationID: 1,
		OnMessages:     func(messages []Message) { deliveries <- messages },
		Clock:          fake,
	})
	if err != nil {
		t.Fatalf("PollConversation: %v", err)
	}
	poller.Start(context.Background())

	<-firstArrived // the initial fetch holds the oldest sequence number
	fake.WaitForTimers(1)
	poller.Refresh()

	got := <-deliveries
	if len(got) != 2 || got[len(got)-1].Content != "fresh" {
		t.Fatalf("first delivery = %v, want the fresh fetch", got)
	}

	close(release)
	<-firstDone
	poller.Stop()

	select {
	case messages := <-deliveries:
		t.Errorf("stale response delivered: %v", messages)
	default:
	}
}
