package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/cellgl/internal/config"
	"github.com/dshills/cellgl/internal/event"
	"github.com/dshills/cellgl/internal/event/events"
	"github.com/dshills/cellgl/internal/event/topic"
	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/renderer/atlas"
	"github.com/dshills/cellgl/internal/renderer/backend"
	"github.com/dshills/cellgl/internal/renderer/core"
)

const testConfigPath = "/cellgl/config.toml"

type memFS struct {
	mu    sync.Mutex
	files map[string]string
}

func (m *memFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(data), nil
}

func (m *memFS) set(path, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

func newTestApp(t *testing.T, fsys *memFS, opts Options) (*Application, *backend.NullBackend) {
	t.Helper()
	if fsys == nil {
		fsys = &memFS{files: map[string]string{}}
	}
	opts.ConfigPath = testConfigPath
	opts.ConfigOptions = append(opts.ConfigOptions,
		config.WithFileSystem(fsys),
		config.WithEnviron(func() []string { return nil }),
		config.WithWatcher(false),
	)
	if opts.Logger == nil {
		opts.Logger = NewLogger(LoggerConfig{Output: io.Discard})
	}

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { app.Close() })

	b := backend.NewNullBackend(60, 12)
	if err := app.SetBackend(b); err != nil {
		t.Fatalf("SetBackend: %v", err)
	}
	return app, b
}

// runOnce queues a quit key and runs the loop to completion. Work posted
// before Run is drained before the key is read.
func runOnce(t *testing.T, app *Application, b *backend.NullBackend) {
	t.Helper()
	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q'})
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func screen(b *backend.NullBackend) string {
	_, h := b.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return strings.Join(rows, "\n")
}

func TestRunWithoutBackend(t *testing.T) {
	app, err := New(Options{
		ConfigPath:    testConfigPath,
		Logger:        NullLogger,
		ConfigOptions: []config.Option{config.WithFileSystem(&memFS{files: map[string]string{}}), config.WithWatcher(false)},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := app.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Errorf("err = %v, want ErrNoBackend", err)
	}
}

func TestRunDrawsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	app, b := newTestApp(t, nil, Options{File: path})
	runOnce(t, app, b)

	if got := strings.TrimRight(b.Row(0), " "); got != "  1 alpha" {
		t.Errorf("row 0 = %q", got)
	}
	if got := strings.TrimRight(b.Row(1), " "); got != "  2 beta" {
		t.Errorf("row 1 = %q", got)
	}
	if !strings.Contains(b.Row(11), "1-2/2 All") {
		t.Errorf("status row = %q", b.Row(11))
	}
	if b.ShowCount() == 0 {
		t.Error("Show never called")
	}
	if app.IsRunning() {
		t.Error("IsRunning after Run returned")
	}
}

func TestMissingDocumentFailsNew(t *testing.T) {
	_, err := New(Options{
		ConfigPath:    testConfigPath,
		File:          filepath.Join(t.TempDir(), "missing.txt"),
		Logger:        NullLogger,
		ConfigOptions: []config.Option{config.WithFileSystem(&memFS{files: map[string]string{}}), config.WithWatcher(false)},
	})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "document" {
		t.Fatalf("err = %v, want document InitError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err does not wrap ErrNotExist: %v", err)
	}
}

func TestBusNotificationsReachOverlay(t *testing.T) {
	app, b := newTestApp(t, nil, Options{})

	if err := notification.Warning(context.Background(), app.EventBus(), "Disk", "almost full"); err != nil {
		t.Fatal(err)
	}
	// Delivery is marshalled onto the UI goroutine.
	if app.Notifications().Len() != 0 {
		t.Fatal("store changed outside the UI loop")
	}

	runOnce(t, app, b)

	if app.Notifications().Len() != 1 {
		t.Fatalf("store has %d notifications", app.Notifications().Len())
	}
	out := screen(b)
	if !strings.Contains(out, "Disk") || !strings.Contains(out, "almost full") {
		t.Errorf("overlay not drawn:\n%s", out)
	}
}

func TestConfigReloadAppliesAndNotifies(t *testing.T) {
	fsys := &memFS{files: map[string]string{}}
	app, b := newTestApp(t, fsys, Options{})

	fsys.set(testConfigPath, "[notifications]\nwidth = 30\n\n[notifications.timeouts]\ninfo = \"2s\"\n")
	if _, err := app.Config().Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	runOnce(t, app, b)

	if got := app.NotificationView().Options().Width; got != 30 {
		t.Errorf("view width = %d, want 30", got)
	}
	n, ok := app.Notifications().At(0)
	if !ok || n.Kind != notification.KindInfo || n.Title != TitleConfigReloaded {
		t.Errorf("notification = %+v, %v", n, ok)
	}
}

func TestConfigReloadFailureKeepsConfig(t *testing.T) {
	fsys := &memFS{files: map[string]string{testConfigPath: "[notifications]\nwidth = 30\n"}}
	app, b := newTestApp(t, fsys, Options{})

	fsys.set(testConfigPath, "[notifications\nwidth = 50\n")
	if _, err := app.Config().Reload(); err == nil {
		t.Fatal("Reload succeeded on broken TOML")
	}
	runOnce(t, app, b)

	if got := app.NotificationView().Options().Width; got != 30 {
		t.Errorf("view width = %d, want previous 30", got)
	}
	n, ok := app.Notifications().At(0)
	if !ok || n.Kind != notification.KindError || n.Title != TitleConfigError {
		t.Fatalf("notification = %+v, %v", n, ok)
	}
	if !strings.Contains(n.Message.Text(), testConfigPath) {
		t.Errorf("message %q does not name the file", n.Message.Text())
	}
	if !strings.HasPrefix(app.StatusLine().Message(), "config: ") {
		t.Errorf("status message = %q", app.StatusLine().Message())
	}
}

func TestAppPublishesEvents(t *testing.T) {
	fsys := &memFS{files: map[string]string{}}
	app, b := newTestApp(t, fsys, Options{})

	var reloaded []events.ConfigReloaded
	var grids []events.GridResized
	sub := event.NewSubscriber(app.EventBus())
	t.Cleanup(func() { _ = sub.Close() })
	_, err := event.SubscribePayload(sub, events.TopicConfigReloaded,
		func(_ context.Context, _ topic.Topic, p events.ConfigReloaded) error {
			reloaded = append(reloaded, p)
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}
	_, err = event.SubscribePayload(sub, events.TopicRendererGridResized,
		func(_ context.Context, _ topic.Topic, p events.GridResized) error {
			grids = append(grids, p)
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}

	fsys.set(testConfigPath, "[notifications]\nwidth = 30\n")
	if _, err := app.Config().Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	runOnce(t, app, b)
	if len(reloaded) != 1 || reloaded[0].Path != testConfigPath {
		t.Errorf("reloaded = %+v", reloaded)
	}

	if err := app.handleEvent(backend.Event{Type: backend.EventResize, Width: 80, Height: 24}); err != nil {
		t.Fatal(err)
	}
	if len(grids) != 1 || grids[0] != (events.GridResized{Rows: 24, Cols: 80}) {
		t.Errorf("grids = %+v", grids)
	}
}

func TestStartupConfigError(t *testing.T) {
	fsys := &memFS{files: map[string]string{testConfigPath: "[grid\n"}}
	app, b := newTestApp(t, fsys, Options{})
	runOnce(t, app, b)

	n, ok := app.Notifications().At(0)
	if !ok || n.Title != TitleConfigError {
		t.Errorf("notification = %+v, %v", n, ok)
	}
	if got := app.Config().Grid().Rows; got != 30 {
		t.Errorf("grid rows = %d, want default", got)
	}
}

func TestScriptsPublishNotifications(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.lua")
	bad := filepath.Join(dir, "bad.lua")
	if err := os.WriteFile(good, []byte(`cellgl.success("Hello", { "one", "two" })`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`error("nope")`), 0o644); err != nil {
		t.Fatal(err)
	}

	app, b := newTestApp(t, nil, Options{Scripts: []string{good, bad}})
	runOnce(t, app, b)

	list := app.Notifications().Notifications()
	if len(list) != 2 {
		t.Fatalf("notifications = %+v", list)
	}
	if list[0].Kind != notification.KindSuccess || !list[0].Message.Equal(notification.Lines("one", "two")) {
		t.Errorf("script notification = %+v", list[0])
	}
	if list[1].Kind != notification.KindError || list[1].Title != TitleScriptFailed {
		t.Errorf("failure notification = %+v", list[1])
	}
}

func TestHandleEvent(t *testing.T) {
	app, _ := newTestApp(t, nil, Options{})

	quits := []backend.Event{
		{Type: backend.EventQuit},
		{Type: backend.EventKey, Key: backend.KeyCtrlC},
		{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q'},
	}
	for _, ev := range quits {
		if err := app.handleEvent(ev); !errors.Is(err, ErrQuit) {
			t.Errorf("handleEvent(%+v) = %v, want ErrQuit", ev, err)
		}
	}

	others := []backend.Event{
		{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q', Mod: backend.ModAlt},
		{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'x'},
		{Type: backend.EventResize, Width: 10, Height: 5},
		{Type: backend.EventNone},
	}
	for _, ev := range others {
		if err := app.handleEvent(ev); err != nil {
			t.Errorf("handleEvent(%+v) = %v", ev, err)
		}
	}

	app.Notifications().Notify(notification.Notification{Kind: notification.KindInfo, Title: "a"})
	if err := app.handleEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyEscape}); err != nil {
		t.Fatal(err)
	}
	if app.Notifications().Len() != 0 {
		t.Error("Esc did not dismiss the newest notification")
	}
}

func TestShutdownBeforeRun(t *testing.T) {
	app, b := newTestApp(t, nil, Options{})
	app.Shutdown()
	app.Shutdown()

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b.ShowCount() != 1 {
		t.Errorf("ShowCount = %d, want one frame", b.ShowCount())
	}
}

func TestThemeRebuildsColorAtlas(t *testing.T) {
	fsys := &memFS{files: map[string]string{testConfigPath: "[theme]\nforeground = \"#112233\"\nbackground = \"#445566\"\n"}}
	app, b := newTestApp(t, fsys, Options{})

	colors := atlas.NewColorAtlas(core.ColorWhite, core.ColorBlack)
	colors.Register(core.NewStyle(core.ColorRed))
	colors.MarkClean()
	app.SetColorAtlas(colors)

	runOnce(t, app, b)

	fg, bg := colors.Defaults()
	if fg.Hex() != "#112233" || bg.Hex() != "#445566" {
		t.Errorf("defaults = %s, %s", fg.Hex(), bg.Hex())
	}
	if colors.Len() != 1 || !colors.Dirty() {
		t.Errorf("Len = %d, Dirty = %v; want reset and dirty", colors.Len(), colors.Dirty())
	}
}

func TestLogLevelOption(t *testing.T) {
	logger := NewLogger(LoggerConfig{Output: io.Discard})
	app, _ := newTestApp(t, nil, Options{LogLevel: "debug", Logger: logger})
	if app.Logger().Level() != LogLevelDebug {
		t.Errorf("level = %v, want debug", app.Logger().Level())
	}

	logger2 := NewLogger(LoggerConfig{Output: io.Discard, Level: LogLevelError})
	fsys := &memFS{files: map[string]string{testConfigPath: "[logging]\nlevel = \"warn\"\n"}}
	newTestApp(t, fsys, Options{Logger: logger2})
	if logger2.Level() != LogLevelWarn {
		t.Errorf("level = %v, want warn from config", logger2.Level())
	}
}

func TestPostedPanicIsRecovered(t *testing.T) {
	app, b := newTestApp(t, nil, Options{})
	ran := false
	app.Post(func() { panic("boom") })
	app.Post(func() { ran = true })

	runOnce(t, app, b)
	if !ran {
		t.Error("work after a panicking callback did not run")
	}
}
