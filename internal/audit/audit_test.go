package audit

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherStampsEvents(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	require.NoError(t, pub.Emit(t.Context(), Event{Action: ActionProgramCreated, EntityID: "NDMA-TR-25-A"}))

	events, err := store.ListRecent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.WithinDuration(t, time.Now(), events[0].Timestamp, time.Minute)
}

func TestChannelPublisherFeedsWorker(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 8)
	pub := NewChannelPublisher(inbox)
	worker := NewWorker(store, inbox, slog.Default())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	require.NoError(t, pub.Emit(t.Context(), Event{Action: ActionUserLoggedIn, ActorID: "u1"}))
	require.NoError(t, pub.Emit(t.Context(), Event{Action: ActionProgramDeleted, EntityID: "NDMA-TR-25-A"}))

	require.Eventually(t, func() bool {
		events, err := store.ListRecent(context.Background(), 10)
		return err == nil && len(events) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestWorkerDrainsBufferedEventsOnShutdown(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 8)
	inbox <- Event{Action: ActionProgramCreated}
	inbox <- Event{Action: ActionProgramDeleted}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	err := NewWorker(store, inbox, slog.Default()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	events, err2 := store.ListRecent(context.Background(), 10)
	require.NoError(t, err2)
	assert.Len(t, events, 2, "buffered events are flushed before exit")
}

func TestChannelPublisherHonorsContext(t *testing.T) {
	inbox := make(chan Event) // unbuffered, no worker
	pub := NewChannelPublisher(inbox)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	err := pub.Emit(ctx, Event{Action: ActionProgramCreated})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInMemoryStoreListRecent(t *testing.T) {
	store := NewInMemoryStore()
	for i := range 5 {
		require.NoError(t, store.Append(t.Context(), Event{
			Action:   ActionProgramUpdated,
			EntityID: fmt.Sprintf("NDMA-TR-25-%d", i),
		}))
	}

	events, err := store.ListRecent(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "NDMA-TR-25-4", events[0].EntityID, "newest event comes first")
	assert.Equal(t, "NDMA-TR-25-3", events[1].EntityID)

	all, err := store.ListRecent(t.Context(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
