package audit

import (
	"context"
	"time"
)

// Emitter captures structured audit events. Mutating services depend on this
// interface so tests can swap sinks easily.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher writes events straight to the store. Used in tests and anywhere
// synchronous persistence is acceptable.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

// ChannelPublisher hands events to a background worker. Emit never blocks the
// request path longer than the context allows; audit loss on shutdown is
// preferred over failing the business operation.
type ChannelPublisher struct {
	inbox chan<- Event
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
