// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package forum

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the forum API. Callers can use
// errors.As to extract the structured information:
//
//	var apiErr *forum.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.StatusCode == http.StatusNotFound { ... }
//	}
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the server's error description, taken from the
	// "error" field of the response body. When the server returns a
	// non-JSON body the raw text is preserved here instead.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("forum: %s (%d): %s", http.StatusText(e.StatusCode), e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given HTTP
// status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}
	return false
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a 401 from the API. For the
// login endpoint this means invalid credentials; everywhere else the
// client has already treated it as session expiry by the time the
// caller sees it.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
