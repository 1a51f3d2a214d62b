package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/cellgl/internal/event/topic"
)

// Event is an immutable typed event.
type Event[T any] struct {
	// Type is the event topic, e.g. "notification:error".
	Type topic.Topic

	Payload T

	Metadata Metadata
}

// Metadata is attached to every event.
type Metadata struct {
	// ID is a UUID unique to this event instance.
	ID string

	Timestamp time.Time

	// Source names the publisher ("lua", "config", "app").
	Source string

	// CausationID links to the event that caused this one.
	CausationID string
}

// NewEvent creates an event stamped with a fresh ID and the current time.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        generateID(),
			Timestamp: timeNow(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// EventMetadata returns the event's metadata for type-erased handling.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// WithCausation returns a copy of the event with a causation ID set.
func (e Event[T]) WithCausation(causationID string) Event[T] {
	e.Metadata.CausationID = causationID
	return e
}

// TopicProvider is implemented by types that can provide their topic.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// MetadataProvider is implemented by types that can provide their metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}

// Envelope carries an untyped payload, for publishers that only know the
// payload at runtime (the Lua host).
type Envelope struct {
	Topic    topic.Topic
	Payload  any
	Metadata Metadata
}

// timeNow is swapped in tests.
var timeNow = time.Now

func generateID() string {
	return uuid.New().String()
}
