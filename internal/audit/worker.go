package audit

import (
	"context"
	"log/slog"
	"time"
)

// Worker consumes audit events from the publisher channel and persists them.
// Append failures are logged and skipped; losing one audit row must never
// stop the trail.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled, then flushes whatever is
// still buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
		w.logger.Error("audit append failed",
			"action", event.Action,
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}

// drain persists events already buffered at shutdown, bounded so a dead
// store cannot hang the exit path.
func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		select {
		case event := <-w.inbox:
			w.append(ctx, event)
		default:
			return
		}
	}
}
