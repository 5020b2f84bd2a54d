package audit

import (
	"context"
	"log/slog"

	id "schemeteller/pkg/domain"
	"schemeteller/pkg/requestcontext"
)

// Emitter is the convenience wrapper services hold. It stamps request-scoped
// metadata onto events and forwards to the publisher, logging (not failing)
// on publish errors.
type Emitter struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewEmitter constructs an emitter. A nil publisher produces a no-op emitter
// so services can always call Emit unconditionally.
func NewEmitter(publisher Publisher, logger *slog.Logger) *Emitter {
	return &Emitter{publisher: publisher, logger: logger}
}

// Emit enriches the event from context (timestamp, request ID, client
// metadata, user ID when unset) and publishes it.
func (e *Emitter) Emit(ctx context.Context, event Event) {
	if e == nil || e.publisher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}
	if event.UserID == (id.UserID{}) {
		event.UserID = requestcontext.UserID(ctx)
	}
	if err := e.publisher.Publish(ctx, event); err != nil && e.logger != nil {
		e.logger.ErrorContext(ctx, "audit publish failed",
			"action", event.Action,
			"error", err,
			"request_id", event.RequestID,
		)
	}
}
