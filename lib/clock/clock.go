// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction. Code that
// polls or sleeps accepts a Clock instead of calling the time package
// directly: production wiring passes Real(), tests pass Fake() and
// advance time explicitly, which removes every time.Sleep race from
// the test suite.
package clock

import "time"

// Clock abstracts the time operations the client needs so polling
// behavior can be tested deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. If d <= 0 the channel receives
	// immediately.
	After(d time.Duration) <-chan time.Time

	// NewTicker returns a Ticker delivering ticks on its C channel at
	// the given interval. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Ticker wraps a periodic timer. Read ticks from C and call Stop when
// done. The C channel has capacity 1, matching time.Ticker: if the
// consumer falls behind, ticks are dropped rather than queued.
type Ticker struct {
	// C delivers ticks.
	C <-chan time.Time

	stopFunc func()
}

// Stop turns off the ticker. No ticks are delivered after Stop
// returns. Stop does not close C.
func (t *Ticker) Stop() { t.stopFunc() }
