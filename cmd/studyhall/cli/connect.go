// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/studyhall-dev/studyhall/forum"
	"github.com/studyhall-dev/studyhall/lib/config"
	"github.com/studyhall-dev/studyhall/lib/session"
)

// Connect loads the configuration and session store and builds the
// forum client every command talks through. When the server rejects
// the stored token, the expiry hook prints a one-line notice pointing
// at 'studyhall login'; the failed call's error still reaches the
// command, so this never doubles up error output.
func Connect(logger *slog.Logger) (*forum.Client, *session.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	sessions := session.Open()
	client, err := forum.NewClient(forum.ClientConfig{
		BaseURL:  cfg.ServerURL,
		Sessions: sessions,
		OnSessionExpired: func() {
			fmt.Fprintln(os.Stderr, "session expired — run 'studyhall login' to sign in again")
		},
		HTTPClient: &http.Client{Timeout: cfg.Timeout()},
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return client, sessions, cfg, nil
}

// RequireSession returns an error unless a session is stored. Commands
// that need authentication call this before making requests so the
// user gets a clear message instead of a server 401.
func RequireSession(sessions *session.Store) error {
	if sessions.Token() == "" {
		return fmt.Errorf("not logged in — run 'studyhall login' first")
	}
	return nil
}

// ReadPassword reads a password for login and register. With an empty
// or "-" passwordFile it prompts on the terminal with echo disabled;
// otherwise it reads the file, stripping trailing newlines.
func ReadPassword(passwordFile string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", passwordFile, err)
		}
		password := strings.TrimRight(string(data), "\r\n")
		if password == "" {
			return "", fmt.Errorf("password file %s is empty", passwordFile)
		}
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return "", fmt.Errorf("empty password")
	}
	return string(passwordBytes), nil
}
