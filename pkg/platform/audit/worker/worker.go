// Package worker drains audit events from a channel into a store, keeping
// persistence off the request path.
package worker

import (
	"context"

	"schemeteller/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them.
type Worker struct {
	store audit.Store
	inbox <-chan audit.Event
}

func New(store audit.Store, inbox <-chan audit.Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

// Run blocks until ctx is cancelled or the store rejects an append.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

// ChannelPublisher adapts an event channel to the Publisher interface.
// Publish drops events when the inbox is full rather than blocking a request.
type ChannelPublisher struct {
	inbox chan<- audit.Event
}

func NewChannelPublisher(inbox chan<- audit.Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event audit.Event) error {
	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return audit.ErrInboxFull
	}
}
