package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/cellgl/internal/event"
	"github.com/dshills/cellgl/internal/event/events"
	"github.com/dshills/cellgl/internal/event/topic"
	"github.com/dshills/cellgl/internal/notification"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) add(level, format string, args ...any) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(format string, args ...any) { l.add("DEBUG", format, args...) }
func (l *recordingLogger) Info(format string, args ...any)  { l.add("INFO", format, args...) }
func (l *recordingLogger) Warn(format string, args ...any)  { l.add("WARN", format, args...) }
func (l *recordingLogger) Error(format string, args ...any) { l.add("ERROR", format, args...) }

func newHost(t *testing.T, opts ...HostOption) (*Host, *[]notification.Notification) {
	t.Helper()
	bus := event.NewBus()
	if err := bus.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	var got []notification.Notification
	unsubscribe, err := notification.Subscribe(bus, func(n notification.Notification) {
		got = append(got, n)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	t.Cleanup(unsubscribe)

	h, err := NewHost(bus, opts...)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h, &got
}

func TestNewHostNilBus(t *testing.T) {
	if _, err := NewHost(nil); !errors.Is(err, ErrNilBus) {
		t.Errorf("err = %v, want ErrNilBus", err)
	}
}

func TestNotifyFromLua(t *testing.T) {
	tests := []struct {
		name string
		code string
		want notification.Notification
	}{
		{
			name: "notify string",
			code: `cellgl.notify("warning", "Disk", "almost full")`,
			want: notification.Notification{Kind: notification.KindWarning, Title: "Disk", Message: notification.Text("almost full")},
		},
		{
			name: "notify lines",
			code: `cellgl.notify("info", "Build", { "step 1", "step 2" })`,
			want: notification.Notification{Kind: notification.KindInfo, Title: "Build", Message: notification.Lines("step 1", "step 2")},
		},
		{
			name: "error shorthand",
			code: `cellgl.error("Oops", "bad")`,
			want: notification.Notification{Kind: notification.KindError, Title: "Oops", Message: notification.Text("bad")},
		},
		{
			name: "success without message",
			code: `cellgl.success("Done")`,
			want: notification.Notification{Kind: notification.KindSuccess, Title: "Done", Message: notification.Text("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, got := newHost(t)
			if err := h.RunString(context.Background(), tt.name, tt.code); err != nil {
				t.Fatalf("RunString: %v", err)
			}
			if len(*got) != 1 {
				t.Fatalf("received %d notifications, want 1", len(*got))
			}
			if !(*got)[0].Equal(tt.want) {
				t.Errorf("got %+v, want %+v", (*got)[0], tt.want)
			}
		})
	}
}

func TestNotifyBadArguments(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unknown kind", `cellgl.notify("fatal", "t", "m")`},
		{"missing title", `cellgl.info()`},
		{"mixed table", `cellgl.info("t", { "a", 1 })`},
		{"number message", `cellgl.info("t", 5)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, got := newHost(t)
			if err := h.RunString(context.Background(), tt.name, tt.code); err == nil {
				t.Error("RunString succeeded, want error")
			}
			if len(*got) != 0 {
				t.Errorf("published %d notifications", len(*got))
			}
		})
	}
}

func TestLogAndPrint(t *testing.T) {
	log := &recordingLogger{}
	h, _ := newHost(t, WithLogger(log))

	if err := h.RunString(context.Background(), "t", `cellgl.log("hello") print("world")`); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	want := []string{"INFO lua: hello", "INFO lua: world"}
	if len(log.lines) != len(want) {
		t.Fatalf("lines = %q", log.lines)
	}
	for i := range want {
		if log.lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, log.lines[i], want[i])
		}
	}
}

func TestRunScriptsContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	write := func(name, code string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	bad := write("bad.lua", `error("nope")`)
	good := write("good.lua", `cellgl.info("Loaded", "good.lua")`)
	missing := filepath.Join(dir, "missing.lua")

	h, got := newHost(t)
	err := h.RunScripts(context.Background(), []string{bad, missing, good})

	var serr *ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *ScriptError", err)
	}
	if serr.Path != bad {
		t.Errorf("first failure path = %q", serr.Path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing script not reported: %v", err)
	}
	if len(*got) != 1 || (*got)[0].Title != "Loaded" {
		t.Errorf("notifications = %+v", *got)
	}
}

func TestRunScriptsPublishesLifecycle(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.lua")
	if err := os.WriteFile(good, []byte("x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.lua")

	bus := event.NewBus()
	if err := bus.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	var loaded []string
	var failed []string
	sub := event.NewSubscriber(bus)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := event.SubscribePayload(sub, events.TopicPluginScriptLoaded,
		func(_ context.Context, _ topic.Topic, p events.ScriptLoaded) error {
			loaded = append(loaded, p.Path)
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}
	_, err = event.SubscribePayload(sub, events.TopicPluginScriptFailed,
		func(_ context.Context, _ topic.Topic, p events.ScriptFailed) error {
			if p.Err == nil {
				t.Error("ScriptFailed without error")
			}
			failed = append(failed, p.Path)
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}

	h, err := NewHost(bus)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	_ = h.RunScripts(context.Background(), []string{missing, good})
	if len(loaded) != 1 || loaded[0] != good {
		t.Errorf("loaded = %v", loaded)
	}
	if len(failed) != 1 || failed[0] != missing {
		t.Errorf("failed = %v", failed)
	}
}

func TestClosedHost(t *testing.T) {
	h, _ := newHost(t)
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := h.RunString(context.Background(), "t", "x = 1"); !errors.Is(err, ErrHostClosed) {
		t.Errorf("err = %v, want ErrHostClosed", err)
	}
}
