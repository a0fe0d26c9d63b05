// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/studyhall-dev/studyhall/forum"
	"github.com/studyhall-dev/studyhall/lib/session"
)

// ReadContent resolves body text for posts, comments, and messages:
// the flag value when given, otherwise stdin when it is piped or
// redirected. An interactive terminal with no flag is an error — a
// silent prompt reading from a TTY surprises more than it helps.
func ReadContent(flagValue, flagName string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no content: pass --%s or pipe text on stdin", flagName)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("empty content on stdin")
	}
	return content, nil
}

// CurrentUser decodes the cached user record from the session store.
func CurrentUser(sessions *session.Store) (*forum.User, bool) {
	stored, ok := sessions.Get()
	if !ok {
		return nil, false
	}
	var user forum.User
	if err := json.Unmarshal(stored.User, &user); err != nil {
		return nil, false
	}
	return &user, true
}

// ParseID parses a positional numeric ID argument.
func ParseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a positive number", what, arg)
	}
	return id, nil
}
