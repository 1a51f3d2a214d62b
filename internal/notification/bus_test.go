package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/cellgl/internal/event"
	"github.com/dshills/cellgl/internal/event/events"
)

func startedBus(t *testing.T) event.Bus {
	t.Helper()
	b := event.NewBus()
	if err := b.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() { _ = b.Stop(context.Background()) })
	return b
}

func TestSubscribeKindsFromTopics(t *testing.T) {
	bus := startedBus(t)
	ctx := context.Background()

	var got []Notification
	unsubscribe, err := Subscribe(bus, func(n Notification) { got = append(got, n) })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsubscribe()

	publish := []struct {
		fn    func(context.Context, event.Bus, string, string) error
		kind  Kind
		title string
	}{
		{Error, KindError, "e"},
		{Warning, KindWarning, "w"},
		{Info, KindInfo, "i"},
		{Success, KindSuccess, "s"},
	}
	for _, p := range publish {
		if err := p.fn(ctx, bus, p.title, "body"); err != nil {
			t.Fatalf("publish %v: %v", p.kind, err)
		}
	}

	if len(got) != len(publish) {
		t.Fatalf("received %d notifications, want %d", len(got), len(publish))
	}
	for i, p := range publish {
		if got[i].Kind != p.kind || got[i].Title != p.title || got[i].Message.Text() != "body" {
			t.Errorf("notification %d = %+v", i, got[i])
		}
	}
}

func TestSubscribeEnvelopeWithLines(t *testing.T) {
	bus := startedBus(t)

	var got []Notification
	unsubscribe, err := Subscribe(bus, func(n Notification) { got = append(got, n) })
	if err != nil {
		t.Fatal(err)
	}
	defer unsubscribe()

	pub := event.NewPublisher(bus, "lua")
	err = pub.PublishEnvelope(context.Background(), events.TopicNotificationWarning,
		events.NotificationPayload{Title: "lint", Lines: []string{"one", "two"}})
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 {
		t.Fatalf("received %d notifications", len(got))
	}
	if got[0].Kind != KindWarning || !got[0].Message.Equal(Lines("one", "two")) {
		t.Errorf("notification = %+v", got[0])
	}
}

func TestSubscribeIgnoresOtherTopics(t *testing.T) {
	bus := startedBus(t)

	count := 0
	unsubscribe, err := Subscribe(bus, func(Notification) { count++ })
	if err != nil {
		t.Fatal(err)
	}
	defer unsubscribe()

	_ = bus.Publish(context.Background(), event.NewEvent(events.TopicConfigReloaded, events.ConfigReloaded{Path: "x"}, "test"))
	_ = bus.Publish(context.Background(), event.NewEvent(events.TopicNotificationInfo, "not a payload", "test"))

	if count != 0 {
		t.Errorf("sink called %d times", count)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := startedBus(t)

	count := 0
	unsubscribe, err := Subscribe(bus, func(Notification) { count++ })
	if err != nil {
		t.Fatal(err)
	}
	if got := bus.Stats().ActiveSubscribers; got != 4 {
		t.Errorf("ActiveSubscribers = %d, want 4", got)
	}

	unsubscribe()
	_ = Info(context.Background(), bus, "t", "m")
	if count != 0 {
		t.Errorf("sink called after unsubscribe")
	}
}

func TestSubscribeNilSink(t *testing.T) {
	if _, err := Subscribe(startedBus(t), nil); !errors.Is(err, ErrNilSink) {
		t.Errorf("err = %v, want ErrNilSink", err)
	}
}
