package notification

import (
	"context"

	"github.com/dshills/cellgl/internal/event"
	"github.com/dshills/cellgl/internal/event/events"
	"github.com/dshills/cellgl/internal/event/topic"
)

// Source is the metadata source of notifications published by this package.
const Source = "notification"

// FromPayload builds a notification of kind k from a bus payload.
func FromPayload(k Kind, p events.NotificationPayload) Notification {
	msg := Text(p.Message)
	if p.Lines != nil {
		msg = Lines(p.Lines...)
	}
	return Notification{Kind: k, Title: p.Title, Message: msg}
}

// Payload converts n to its bus payload.
func (n Notification) Payload() events.NotificationPayload {
	p := events.NotificationPayload{Title: n.Title}
	if n.Message.IsLines() {
		p.Lines = n.Message.Lines()
	} else {
		p.Message = n.Message.Text()
	}
	return p
}

// Subscribe delivers every notification published on the bus to sink, with
// the kind implied by the topic. sink runs on the publisher's goroutine;
// callers that keep UI state must hand the value over to the UI goroutine.
// The returned function drops all four subscriptions.
func Subscribe(bus event.Bus, sink func(Notification)) (func(), error) {
	if sink == nil {
		return nil, ErrNilSink
	}

	sub := event.NewSubscriber(bus)
	for _, kind := range Kinds() {
		_, err := event.SubscribePayload(sub, kind.Topic(),
			func(_ context.Context, _ topic.Topic, p events.NotificationPayload) error {
				sink(FromPayload(kind, p))
				return nil
			})
		if err != nil {
			_ = sub.Close()
			return nil, err
		}
	}

	return func() { _ = sub.Close() }, nil
}

// Publish sends a notification on the topic of its kind.
func Publish(ctx context.Context, bus event.Bus, n Notification) error {
	return bus.Publish(ctx, event.NewEvent(n.Kind.Topic(), n.Payload(), Source))
}

// Error publishes an error notification with a single-string message.
func Error(ctx context.Context, bus event.Bus, title, message string) error {
	return Publish(ctx, bus, Notification{Kind: KindError, Title: title, Message: Text(message)})
}

// Warning publishes a warning notification.
func Warning(ctx context.Context, bus event.Bus, title, message string) error {
	return Publish(ctx, bus, Notification{Kind: KindWarning, Title: title, Message: Text(message)})
}

// Info publishes an info notification.
func Info(ctx context.Context, bus event.Bus, title, message string) error {
	return Publish(ctx, bus, Notification{Kind: KindInfo, Title: title, Message: Text(message)})
}

// Success publishes a success notification.
func Success(ctx context.Context, bus event.Bus, title, message string) error {
	return Publish(ctx, bus, Notification{Kind: KindSuccess, Title: title, Message: Text(message)})
}
