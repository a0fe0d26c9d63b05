// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestSetGet(t *testing.T) {
	store := testStore(t)

	user := json.RawMessage(`{"id":1,"username":"alice"}`)
	if err := store.Set("tok_abc", user); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	current, ok := store.Get()
	if !ok {
		t.Fatal("Get returned absent after Set")
	}
	if current.Token != "tok_abc" {
		t.Errorf("token = %q, want tok_abc", current.Token)
	}
	if string(current.User) != string(user) {
		t.Errorf("user = %s, want %s", current.User, user)
	}
}

func TestGetAbsent(t *testing.T) {
	store := testStore(t)
	if _, ok := store.Get(); ok {
		t.Fatal("Get returned present for never-set store")
	}
	if store.Token() != "" {
		t.Errorf("Token = %q, want empty", store.Token())
	}
}

func TestClear(t *testing.T) {
	store := testStore(t)

	if err := store.Set("tok_abc", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Fatal("Get returned present after Clear")
	}

	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
}

func TestSetRequiresToken(t *testing.T) {
	store := testStore(t)
	if err := store.Set("", nil); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	if err := NewStore(path).Set("tok_abc", json.RawMessage(`{"id":2}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh Store over the same path sees the session — this is the
	// "survives reload" property.
	current, ok := NewStore(path).Get()
	if !ok {
		t.Fatal("session did not survive reopen")
	}
	if current.Token != "tok_abc" {
		t.Errorf("token = %q, want tok_abc", current.Token)
	}
}

func TestFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := NewStore(path).Set("tok_abc", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("file mode = %o, want 0600", mode)
	}
}

func TestCorruptFileIsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}
	if _, ok := NewStore(path).Get(); ok {
		t.Fatal("corrupt session file reported as present")
	}
}

func TestFilePathEnvOverride(t *testing.T) {
	t.Setenv("STUDYHALL_SESSION_FILE", "/tmp/override.json")
	if FilePath() != "/tmp/override.json" {
		t.Errorf("FilePath = %q, want /tmp/override.json", FilePath())
	}
}
