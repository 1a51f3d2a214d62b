package event

import (
	"context"
	"sync"

	"github.com/dshills/cellgl/internal/event/topic"
)

// Subscriber tracks a group of subscriptions so they can be dropped together.
type Subscriber struct {
	bus  Bus
	mu   sync.Mutex
	subs []Subscription

	closed bool
}

// NewSubscriber creates a Subscriber on bus.
func NewSubscriber(bus Bus) *Subscriber {
	return &Subscriber{bus: bus}
}

// Subscribe registers handler and tracks the subscription.
func (s *Subscriber) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSubscriberClosed
	}

	sub, err := s.bus.Subscribe(topicPattern, handler, opts...)
	if err != nil {
		return nil, err
	}
	s.subs = append(s.subs, sub)
	return sub, nil
}

// SubscribeFunc registers a function handler.
func (s *Subscriber) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return s.Subscribe(topicPattern, fn, opts...)
}

// Count returns the number of tracked subscriptions.
func (s *Subscriber) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close unsubscribes everything. Further Subscribe calls fail.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, sub := range s.subs {
		// already-removed subscriptions are fine here
		_ = s.bus.Unsubscribe(sub)
	}
	s.subs = nil
	return nil
}

// SubscribePayload registers a handler that receives only the payload of
// Event[T] or an Envelope carrying a T. Other events are ignored.
func SubscribePayload[T any](s interface {
	Subscribe(topic.Topic, Handler, ...SubscriptionOption) (Subscription, error)
}, topicPattern topic.Topic, handler func(ctx context.Context, t topic.Topic, payload T) error, opts ...SubscriptionOption) (Subscription, error) {
	wrapped := HandlerFunc(func(ctx context.Context, event any) error {
		switch e := event.(type) {
		case Event[T]:
			return handler(ctx, e.Type, e.Payload)
		case Envelope:
			if payload, ok := e.Payload.(T); ok {
				return handler(ctx, e.Topic, payload)
			}
		}
		return nil
	})
	return s.Subscribe(topicPattern, wrapped, opts...)
}
