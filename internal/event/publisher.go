package event

import (
	"context"

	"github.com/dshills/cellgl/internal/event/topic"
)

// Publisher stamps events with a fixed source before publishing them.
type Publisher struct {
	bus    Bus
	source string
}

// NewPublisher creates a Publisher. source identifies where events
// originate, e.g. "lua" or "config".
func NewPublisher(bus Bus, source string) *Publisher {
	return &Publisher{bus: bus, source: source}
}

// Publish sends a prebuilt event.
func (p *Publisher) Publish(ctx context.Context, event any) error {
	return p.bus.Publish(ctx, event)
}

// PublishEnvelope wraps payload in an Envelope and publishes it.
func (p *Publisher) PublishEnvelope(ctx context.Context, eventType topic.Topic, payload any) error {
	return p.bus.Publish(ctx, Envelope{
		Topic:   eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        generateID(),
			Timestamp: timeNow(),
			Source:    p.source,
		},
	})
}

// Source returns the publisher's source name.
func (p *Publisher) Source() string {
	return p.source
}

// PublishEvent creates an Event[T] with the publisher's source and publishes it.
func PublishEvent[T any](ctx context.Context, p *Publisher, eventType topic.Topic, payload T) error {
	return p.bus.Publish(ctx, NewEvent(eventType, payload, p.source))
}
