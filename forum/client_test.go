// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/studyhall-dev/studyhall/lib/session"
)

// newTestClient builds a client against the given handler with a fresh
// session store in a temp directory. The expired counter records every
// OnSessionExpired invocation.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store, *atomic.Int64) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	var expired atomic.Int64
	client, err := NewClient(ClientConfig{
		BaseURL:          server.URL,
		Sessions:         sessions,
		OnSessionExpired: func() { expired.Add(1) },
		Logger:           slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, sessions, &expired
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encoding response: %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	sessions := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	t.Run("missing base URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{Sessions: sessions}); err == nil {
			t.Fatal("expected error for missing BaseURL")
		}
	})

	t.Run("missing session store", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{BaseURL: "http://localhost:5000/api"}); err == nil {
			t.Fatal("expected error for missing Sessions")
		}
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		client, err := NewClient(ClientConfig{
			BaseURL:  "http://localhost:5000/api/",
			Sessions: sessions,
		})
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		if client.baseURL != "http://localhost:5000/api" {
			t.Errorf("baseURL = %q, want trailing slash removed", client.baseURL)
		}
	})
}

func TestBearerToken(t *testing.T) {
	t.Run("attached when session present", func(t *testing.T) {
		var gotAuth atomic.Value
		client, sessions, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth.Store(r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, map[string]any{"user": User{ID: 1}})
		}))
		if err := sessions.Set("tok-abc123", json.RawMessage(`{"id":1}`)); err != nil {
			t.Fatalf("Set: %v", err)
		}

		if _, err := client.Me(context.Background()); err != nil {
			t.Fatalf("Me: %v", err)
		}
		if got := gotAuth.Load(); got != "Bearer tok-abc123" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok-abc123")
		}
	})

	t.Run("absent when logged out", func(t *testing.T) {
		var gotAuth atomic.Value
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth.Store(r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, PostList{})
		}))

		if _, err := client.Posts(context.Background(), ListPostsOptions{}); err != nil {
			t.Fatalf("Posts: %v", err)
		}
		if got := gotAuth.Load(); got != "" {
			t.Errorf("Authorization = %q, want no header", got)
		}
	})
}

func TestSessionExpiry(t *testing.T) {
	t.Run("non-login 401 clears session and fires hook", func(t *testing.T) {
		client, sessions, expired := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		}))
		if err := sessions.Set("stale-token", json.RawMessage(`{"id":1}`)); err != nil {
			t.Fatalf("Set: %v", err)
		}

		_, err := client.Me(context.Background())
		if !IsUnauthorized(err) {
			t.Fatalf("Me error = %v, want 401 APIError", err)
		}
		if _, ok := sessions.Get(); ok {
			t.Error("session still present after 401, want cleared")
		}
		if n := expired.Load(); n != 1 {
			t.Errorf("OnSessionExpired fired %d times, want 1", n)
		}
	})

	t.Run("login 401 leaves session and hook untouched", func(t *testing.T) {
		client, sessions, expired := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}))
		if err := sessions.Set("still-good", json.RawMessage(`{"id":1}`)); err != nil {
			t.Fatalf("Set: %v", err)
		}

		_, err := client.Login(context.Background(), "a@b.edu", "wrong")
		if !IsUnauthorized(err) {
			t.Fatalf("Login error = %v, want 401 APIError", err)
		}
		if sessions.Token() != "still-good" {
			t.Error("failed login disturbed the stored session")
		}
		if n := expired.Load(); n != 0 {
			t.Errorf("OnSessionExpired fired %d times, want 0", n)
		}
	})

	t.Run("hook fires once under concurrent failures", func(t *testing.T) {
		client, sessions, expired := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		}))
		if err := sessions.Set("stale-token", json.RawMessage(`{"id":1}`)); err != nil {
			t.Fatalf("Set: %v", err)
		}

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				client.Me(context.Background())
			}()
		}
		wg.Wait()

		if n := expired.Load(); n != 1 {
			t.Errorf("OnSessionExpired fired %d times, want 1", n)
		}
	})

	t.Run("hook re-arms after a fresh login", func(t *testing.T) {
		var loggedIn atomic.Bool
		client, _, expired := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/login" {
				loggedIn.Store(true)
				writeJSON(t, w, http.StatusOK, AuthResponse{
					Token: "fresh-token",
					User:  User{ID: 1, Username: "priya"},
				})
				return
			}
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
		}))

		client.Me(context.Background())
		if n := expired.Load(); n != 1 {
			t.Fatalf("OnSessionExpired fired %d times after first expiry, want 1", n)
		}

		if _, err := client.Login(context.Background(), "priya@campus.edu", "pw"); err != nil {
			t.Fatalf("Login: %v", err)
		}
		if !loggedIn.Load() {
			t.Fatal("login request never reached the server")
		}

		client.Me(context.Background())
		if n := expired.Load(); n != 2 {
			t.Errorf("OnSessionExpired fired %d times after second expiry, want 2", n)
		}
	})
}

func TestErrorPassthrough(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			client, sessions, expired := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, status, map[string]string{"error": "nope"})
			}))
			if err := sessions.Set("good-token", json.RawMessage(`{"id":1}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}

			_, err := client.Post(context.Background(), 42)
			if !IsStatus(err, status) {
				t.Fatalf("error = %v, want status %d", err, status)
			}
			if sessions.Token() != "good-token" {
				t.Errorf("status %d disturbed the stored session", status)
			}
			if n := expired.Load(); n != 0 {
				t.Errorf("OnSessionExpired fired %d times, want 0", n)
			}
		})
	}
}

func TestErrorBodyParsing(t *testing.T) {
	t.Run("json error field", func(t *testing.T) {
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		}))

		_, err := client.CreatePost(context.Background(), PostInput{Title: "x", Content: "y", Subject: "Math"})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.Message != "title is required" {
			t.Errorf("Message = %q, want server error text", apiErr.Message)
		}
	})

	t.Run("non-json body preserved", func(t *testing.T) {
		client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream unavailable\n"))
		}))

		_, err := client.Post(context.Background(), 1)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.Message != "upstream unavailable" {
			t.Errorf("Message = %q, want raw body text", apiErr.Message)
		}
	})
}

func TestRequestIDHeader(t *testing.T) {
	seen := make(map[string]bool)
	var mu sync.Mutex
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			t.Error("missing X-Request-ID header")
		}
		mu.Lock()
		seen[id] = true
		mu.Unlock()
		writeJSON(t, w, http.StatusOK, PostList{})
	}))

	for range 3 {
		if _, err := client.Posts(context.Background(), ListPostsOptions{}); err != nil {
			t.Fatalf("Posts: %v", err)
		}
	}
	if len(seen) != 3 {
		t.Errorf("saw %d distinct request IDs across 3 requests, want 3", len(seen))
	}
}
