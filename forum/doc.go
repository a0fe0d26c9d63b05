// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package forum wraps the StudyHall discussion forum's HTTP JSON API.
//
// [Client] is the single boundary every call goes through. It attaches
// the bearer token from the injected session store to each request,
// and owns the one piece of cross-cutting failure policy the API
// demands: a 401 from any endpoint other than login means the session
// has expired, so the store is cleared and the configured
// OnSessionExpired hook fires exactly once — while a 401 from the
// login endpoint itself is an ordinary "invalid credentials" error
// returned to the caller with no global side effect.
//
// Resource operations are grouped by file (auth, posts, comments,
// conversations, profiles, AI helpers). Each is a thin typed mapping
// to one endpoint: parameters in, path and method fixed, the server's
// response returned as-is. No retries and no business rules live at
// this layer.
//
// [ConversationPoller] approximates live chat over the plain REST API:
// it re-fetches a conversation's messages on a fixed interval,
// replacing the whole list each time (the server delivers newest-first;
// the poller hands the callback oldest-first). A monotonic sequence
// number guards against an older in-flight fetch overwriting a newer
// one, since requests are never cancelled mid-flight.
//
// API errors are returned as [*APIError] carrying the HTTP status and
// the server's error message; use [IsStatus] or errors.As to inspect
// them.
package forum
