package event

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dshills/cellgl/internal/event/dispatch"
	"github.com/dshills/cellgl/internal/event/topic"
)

// Bus is the central event bus interface.
type Bus interface {
	// Publish delivers event to every matching subscription before returning.
	// Handler failures are joined into the returned error.
	Publish(ctx context.Context, event any) error

	Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	Start() error
	Stop(ctx context.Context) error
	Pause()
	Resume()

	Stats() Stats
	IsRunning() bool
	IsPaused() bool
}

type bus struct {
	registry   *Registry
	dispatcher *dispatch.SyncDispatcher

	running atomic.Bool
	paused  atomic.Bool

	config busConfig

	eventsPublished  atomic.Uint64
	eventsDelivered  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
	totalDeliveryNs  atomic.Int64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b := &bus{
		registry: NewRegistry(),
		config:   config,
	}
	b.dispatcher = dispatch.NewSyncDispatcher(
		dispatch.WithPanicHandler(dispatch.PanicHandler(config.panicHandler)),
		dispatch.WithTimeout(config.handlerTimeout),
	)
	return b
}

// Start starts the event bus.
func (b *bus) Start() error {
	if b.running.Swap(true) {
		return ErrBusAlreadyRunning
	}
	return nil
}

// Stop stops the event bus. Delivery is synchronous so there is nothing to
// drain; ctx is accepted for symmetry with other components.
func (b *bus) Stop(_ context.Context) error {
	if !b.running.Swap(false) {
		return ErrBusNotRunning
	}
	return nil
}

// Pause drops published events until Resume is called.
func (b *bus) Pause() {
	b.paused.Store(true)
}

// Resume restarts event delivery after a pause.
func (b *bus) Resume() {
	b.paused.Store(false)
}

func (b *bus) IsRunning() bool {
	return b.running.Load()
}

func (b *bus) IsPaused() bool {
	return b.paused.Load()
}

// Publish sends an event to all matching handlers on the caller's goroutine.
func (b *bus) Publish(ctx context.Context, event any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}
	if b.paused.Load() {
		return nil
	}

	eventTopic := extractTopic(event)
	if eventTopic == "" {
		return ErrInvalidEvent
	}

	b.eventsPublished.Add(1)

	subs := b.registry.MatchActive(eventTopic)
	if len(subs) == 0 {
		return nil
	}

	var errs []error
	for _, sub := range subs {
		if !sub.ShouldDeliver(event) {
			continue
		}

		result := b.dispatcher.Dispatch(ctx, event, sub.Handler())
		if result.Skipped {
			errs = append(errs, result.Error)
			break
		}

		b.handlersExecuted.Add(1)
		b.totalDeliveryNs.Add(result.Duration.Nanoseconds())

		switch {
		case result.Panicked:
			b.handlerPanics.Add(1)
			errs = append(errs, &PanicError{
				SubscriptionID: sub.ID(),
				Topic:          string(eventTopic),
				Value:          result.PanicValue,
			})
		case result.Error != nil:
			b.handlerErrors.Add(1)
			errs = append(errs, &HandlerError{
				SubscriptionID: sub.ID(),
				Topic:          string(eventTopic),
				Err:            result.Error,
			})
		case result.Success:
			b.eventsDelivered.Add(1)
			if sub.Config().Once {
				sub.Cancel()
				b.registry.Remove(sub.ID())
			}
		}
	}

	return errors.Join(errs...)
}

// Subscribe creates a new subscription for the given topic pattern.
func (b *bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(generateID(), topicPattern, handler, opts...)
	b.registry.Add(sub)
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	executed := b.handlersExecuted.Load()
	var avgNs int64
	if executed > 0 {
		avgNs = b.totalDeliveryNs.Load() / int64(executed)
	}

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlersExecuted:  executed,
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		AvgDeliveryTimeNs: avgNs,
		ActiveSubscribers: b.registry.CountActive(),
	}
}

func extractTopic(event any) topic.Topic {
	if tp, ok := event.(TopicProvider); ok {
		return tp.EventTopic()
	}
	if env, ok := event.(Envelope); ok {
		return env.Topic
	}
	return ""
}
