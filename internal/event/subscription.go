package event

import (
	"sync/atomic"

	"github.com/dshills/cellgl/internal/event/topic"
)

// SubscriptionState is active, paused or cancelled. Cancelled is final.
type SubscriptionState int32

const (
	SubscriptionStateActive SubscriptionState = iota
	SubscriptionStatePaused
	SubscriptionStateCancelled
)

var subscriptionStateNames = [...]string{"active", "paused", "cancelled"}

func (s SubscriptionState) String() string {
	if s < 0 || int(s) >= len(subscriptionStateNames) {
		return "unknown"
	}
	return subscriptionStateNames[s]
}

// Subscription is the handle Subscribe returns. Pass it to Unsubscribe to
// drop the handler; Pause and Resume only gate delivery.
type Subscription interface {
	ID() string
	Topic() topic.Topic
	State() SubscriptionState
	IsActive() bool
	IsPaused() bool
	Pause()
	Resume()
	Cancel()
}

// SubscriptionConfig holds the per-subscription options.
type SubscriptionConfig struct {
	// Priority orders handlers of one event; lower runs first.
	Priority Priority

	// Filter drops events it returns false for.
	Filter FilterFunc

	// Once cancels the subscription after its first delivery.
	Once bool
}

func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Priority = p }
}

func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Filter = f }
}

// WithOnce is used for one-shot waits such as "next config reload".
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Once = true }
}

type subscription struct {
	id      string
	topic   topic.Topic
	handler Handler
	config  SubscriptionConfig
	state   atomic.Int32

	// seq is the registration order, the tie breaker between equal
	// priorities
	seq uint64
}

func newSubscription(id string, t topic.Topic, h Handler, opts ...SubscriptionOption) *subscription {
	s := &subscription{
		id:      id,
		topic:   t,
		handler: h,
		config:  DefaultSubscriptionConfig(),
	}
	for _, opt := range opts {
		opt(&s.config)
	}
	return s
}

func (s *subscription) ID() string                 { return s.id }
func (s *subscription) Topic() topic.Topic         { return s.topic }
func (s *subscription) Handler() Handler           { return s.handler }
func (s *subscription) Config() SubscriptionConfig { return s.config }

func (s *subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

func (s *subscription) IsActive() bool    { return s.State() == SubscriptionStateActive }
func (s *subscription) IsPaused() bool    { return s.State() == SubscriptionStatePaused }
func (s *subscription) IsCancelled() bool { return s.State() == SubscriptionStateCancelled }

func (s *subscription) Pause() {
	s.transition(SubscriptionStateActive, SubscriptionStatePaused)
}

func (s *subscription) Resume() {
	s.transition(SubscriptionStatePaused, SubscriptionStateActive)
}

func (s *subscription) Cancel() {
	s.state.Store(int32(SubscriptionStateCancelled))
}

func (s *subscription) transition(from, to SubscriptionState) {
	s.state.CompareAndSwap(int32(from), int32(to))
}

// ShouldDeliver reports whether event passes the state and filter checks.
func (s *subscription) ShouldDeliver(event any) bool {
	if !s.IsActive() {
		return false
	}
	return s.config.Filter == nil || s.config.Filter(event)
}
