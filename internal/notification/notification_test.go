package notification

import (
	"errors"
	"testing"

	"github.com/dshills/cellgl/internal/event/events"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		err  bool
	}{
		{"error", KindError, false},
		{"Warning", KindWarning, false},
		{"warn", KindWarning, false},
		{" info ", KindInfo, false},
		{"SUCCESS", KindSuccess, false},
		{"debug", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.err {
			if !errors.Is(err, ErrUnknownKind) {
				t.Errorf("ParseKind(%q) err = %v, want ErrUnknownKind", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestKindTopic(t *testing.T) {
	tests := []struct {
		kind  Kind
		topic string
	}{
		{KindError, "notification:error"},
		{KindWarning, "notification:warning"},
		{KindInfo, "notification:info"},
		{KindSuccess, "notification:success"},
	}
	for _, tt := range tests {
		if got := tt.kind.Topic(); string(got) != tt.topic {
			t.Errorf("%v.Topic() = %q, want %q", tt.kind, got, tt.topic)
		}
		k, ok := KindFromTopic(tt.kind.Topic())
		if !ok || k != tt.kind {
			t.Errorf("KindFromTopic(%q) = %v, %v", tt.topic, k, ok)
		}
		if tt.kind.String() != string(tt.kind.Topic().Base()) {
			t.Errorf("kind name %q does not match topic %q", tt.kind, tt.kind.Topic())
		}
	}
	if _, ok := KindFromTopic(events.TopicNotificationAll); ok {
		t.Error("wildcard topic should not map to a kind")
	}
}

func TestMessage(t *testing.T) {
	single := Text("hello")
	if single.IsLines() || single.Text() != "hello" {
		t.Errorf("Text message = %+v", single)
	}
	if got := single.Lines(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("single Lines() = %v", got)
	}

	src := []string{"one", "two"}
	multi := Lines(src...)
	src[0] = "changed"
	if !multi.IsLines() || multi.Text() != "one\ntwo" {
		t.Errorf("Lines message = %+v", multi)
	}
	lines := multi.Lines()
	lines[1] = "changed"
	if multi.Lines()[1] != "two" {
		t.Error("Lines() returned internal storage")
	}

	if Text("a\nb").Equal(Lines("a", "b")) {
		t.Error("string and lines with the same text should differ")
	}
	if !Lines().IsEmpty() || !Text("").IsEmpty() || Lines("").IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	tests := []Notification{
		{Kind: KindError, Title: "Build failed", Message: Text("exit status 2")},
		{Kind: KindInfo, Title: "Lint", Message: Lines("a.go:1", "b.go:2")},
		{Kind: KindSuccess, Title: "Empty lines", Message: Lines()},
	}
	for _, n := range tests {
		got := FromPayload(n.Kind, n.Payload())
		if !got.Equal(n) {
			t.Errorf("round trip of %+v = %+v", n, got)
		}
	}

	// Lines wins over Message
	p := events.NotificationPayload{Title: "t", Message: "ignored", Lines: []string{"x"}}
	if got := FromPayload(KindWarning, p); !got.Message.IsLines() || got.Message.Text() != "x" {
		t.Errorf("FromPayload = %+v", got)
	}
}
