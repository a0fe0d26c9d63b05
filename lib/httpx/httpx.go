// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides small HTTP I/O helpers. Response body reads
// are bounded at MaxResponseSize so a misbehaving server cannot make
// the client allocate without limit. These helpers are for JSON API
// responses, not streaming downloads.
package httpx

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxResponseSize bounds JSON API response body reads: 32 MB. The
// forum API's largest legitimate responses (post lists with embedded
// comment trees) are orders of magnitude smaller; the limit only
// exists to cap pathological responses.
const MaxResponseSize int64 = 32 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll on HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a bounded response body and JSON-decodes it
// into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}
