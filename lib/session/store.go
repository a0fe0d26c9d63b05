// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package session stores the authenticated forum session (bearer token
// plus the cached user record) on disk so it survives across command
// invocations. Analogous to SSH keys: log in once via "studyhall
// login", then every command loads the session transparently.
//
// The user record is kept as raw JSON. The store does not interpret
// it — it is a cache written at login and read back by whoever needs
// the typed view, which keeps this package free of API-type imports.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session is the persisted authentication state.
type Session struct {
	// Token is the bearer token proving identity to the forum API.
	Token string `json:"token"`

	// User is the cached user record as returned by the login or
	// register endpoint. May be nil for sessions written by older
	// versions of the CLI.
	User json.RawMessage `json:"user,omitempty"`
}

// FilePath returns the session file location. Checks the
// STUDYHALL_SESSION_FILE environment variable first, then falls back
// to $XDG_CONFIG_HOME/studyhall/session.json or
// ~/.config/studyhall/session.json.
func FilePath() string {
	if envPath := os.Getenv("STUDYHALL_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "studyhall-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "studyhall", "session.json")
}

// Store is a file-backed session store. The zero value is not usable;
// create one with NewStore or Open.
//
// Store is safe for concurrent use. Every outbound API request reads
// the token through it, and the 401 expiry handler clears it, possibly
// from several request goroutines at once.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Open creates a store at the well-known path (see FilePath).
func Open() *Store {
	return NewStore(FilePath())
}

// Set persists the token and user record. The file is written with
// mode 0600 (it contains a credential) under a 0700 directory.
func (s *Store) Set(token string, user json.RawMessage) error {
	if token == "" {
		return fmt.Errorf("session: token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(Session{Token: token, User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("session: creating directory %s: %w", directory, err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("session: writing %s: %w", s.path, err)
	}
	return nil
}

// Get returns the current session. The second return value is false
// when no session exists — never set, cleared, or unreadable. A
// corrupt session file counts as absent: the caller's remedy is the
// same either way (log in again).
func (s *Store) Get() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}, false
	}

	var current Session
	if err := json.Unmarshal(data, &current); err != nil {
		return Session{}, false
	}
	if current.Token == "" {
		return Session{}, false
	}
	return current, true
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	current, ok := s.Get()
	if !ok {
		return ""
	}
	return current.Token
}

// Clear removes the session. Idempotent — clearing an absent session
// is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: removing %s: %w", s.path, err)
	}
	return nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}
