// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeNow(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(start)

	if !fake.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", fake.Now(), start)
	}

	fake.Advance(90 * time.Second)
	if !fake.Now().Equal(start.Add(90 * time.Second)) {
		t.Errorf("Now() after advance = %v", fake.Now())
	}
}

func TestFakeAfter(t *testing.T) {
	t.Run("fires on advance past deadline", func(t *testing.T) {
		fake := Fake(time.Unix(0, 0))
		channel := fake.After(5 * time.Second)

		select {
		case <-channel:
			t.Fatal("channel fired before advance")
		default:
		}

		fake.Advance(5 * time.Second)
		select {
		case <-channel:
		default:
			t.Fatal("channel did not fire after advance")
		}
	})

	t.Run("non-positive duration fires immediately", func(t *testing.T) {
		fake := Fake(time.Unix(0, 0))
		select {
		case <-fake.After(0):
		default:
			t.Fatal("After(0) did not fire immediately")
		}
	})
}

func TestFakeTicker(t *testing.T) {
	t.Run("fires once per interval", func(t *testing.T) {
		fake := Fake(time.Unix(0, 0))
		ticker := fake.NewTicker(3 * time.Second)
		defer ticker.Stop()

		ticks := 0
		for range 4 {
			fake.Advance(3 * time.Second)
			select {
			case <-ticker.C:
				ticks++
			default:
			}
		}
		if ticks != 4 {
			t.Errorf("got %d ticks, want 4", ticks)
		}
	})

	t.Run("stopped ticker stays silent", func(t *testing.T) {
		fake := Fake(time.Unix(0, 0))
		ticker := fake.NewTicker(time.Second)
		ticker.Stop()

		fake.Advance(10 * time.Second)
		select {
		case <-ticker.C:
			t.Fatal("stopped ticker delivered a tick")
		default:
		}
	})

	t.Run("panics on non-positive interval", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic for zero interval")
			}
		}()
		Fake(time.Unix(0, 0)).NewTicker(0)
	})
}

func TestWaitForTimers(t *testing.T) {
	fake := Fake(time.Unix(0, 0))

	registered := make(chan struct{})
	go func() {
		channel := fake.After(time.Second)
		close(registered)
		<-channel
	}()

	fake.WaitForTimers(1)
	<-registered

	if fake.PendingCount() != 1 {
		t.Errorf("PendingCount = %d, want 1", fake.PendingCount())
	}
	fake.Advance(time.Second)
}
