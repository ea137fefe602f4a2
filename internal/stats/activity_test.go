package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secure-file-share/internal/event"
)

func TestActiveUsersCountsDistinctUsersInWindow(t *testing.T) {
	tracker := NewActivityTracker(time.Minute)

	tracker.Touch("user-a")
	tracker.Touch("user-b")
	tracker.Touch("user-a")
	tracker.Touch("")

	assert.Equal(t, 2, tracker.ActiveUsers())
}

func TestActiveUsersExpireOutsideWindow(t *testing.T) {
	tracker := NewActivityTracker(10 * time.Millisecond)

	tracker.Touch("user-a")
	require.Equal(t, 1, tracker.ActiveUsers())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, tracker.ActiveUsers())
}

func TestConsumeTouchesEventActors(t *testing.T) {
	tracker := NewActivityTracker(time.Minute)
	bus := event.NewBus()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tracker.Consume(ctx, bus)

	// Subscription happens inside Consume; give it a moment to attach.
	require.Eventually(t, func() bool {
		bus.Publish(event.New(event.TypeUserLoggedIn, "user-a", nil))
		return tracker.ActiveUsers() == 1
	}, time.Second, 10*time.Millisecond)
}
