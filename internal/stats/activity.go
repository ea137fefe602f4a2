// Package stats tracks request-time user activity for the live stats
// endpoint. The tracker is the single injected owner of this state;
// nothing else in the process keeps activity counters.
package stats

import (
	"context"
	"sync"
	"time"

	"secure-file-share/internal/event"
)

type ActivityTracker struct {
	window   time.Duration
	mu       sync.Mutex
	lastSeen map[string]time.Time
}

func NewActivityTracker(window time.Duration) *ActivityTracker {
	if window <= 0 {
		window = 15 * time.Minute
	}

	return &ActivityTracker{
		window:   window,
		lastSeen: map[string]time.Time{},
	}
}

// Touch records activity for a user. Called from the auth middleware
// on every authenticated request and from the event consumer for
// login/signup, which happen before a session exists.
func (t *ActivityTracker) Touch(userID string) {
	if userID == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastSeen[userID] = time.Now()
	t.sweepLocked()
}

// ActiveUsers counts users seen within the activity window.
func (t *ActivityTracker) ActiveUsers() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-t.window)
	count := 0
	for _, seen := range t.lastSeen {
		if seen.After(cutoff) {
			count++
		}
	}
	return count
}

func (t *ActivityTracker) sweepLocked() {
	if len(t.lastSeen) < 1000 {
		return
	}

	cutoff := time.Now().Add(-t.window)
	for id, seen := range t.lastSeen {
		if seen.Before(cutoff) {
			delete(t.lastSeen, id)
		}
	}
}

// Consume feeds bus events into the tracker until ctx is cancelled or
// the bus closes the subscription.
func (t *ActivityTracker) Consume(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			t.Touch(e.ActorID)
		}
	}
}
