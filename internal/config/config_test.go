package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dshills/cellgl/internal/config/notify"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func noEnv() []string { return nil }

func load(t *testing.T, opts ...Option) *Config {
	t.Helper()
	c := New(append([]Option{WithEnviron(noEnv)}, opts...)...)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConfig_Defaults(t *testing.T) {
	c := load(t, WithPath(""))

	size, err := c.GetFloat("font.size")
	if err != nil || size != 14 {
		t.Errorf("font.size = %v, %v", size, err)
	}
	rows, err := c.GetInt("grid.rows")
	if err != nil || rows != 30 {
		t.Errorf("grid.rows = %v, %v", rows, err)
	}
	if got := c.WhichLayer("grid.rows"); got != "builtin" {
		t.Errorf("WhichLayer = %q, want builtin", got)
	}
	if c.Watching() {
		t.Error("watcher should be off by default")
	}
}

func TestConfig_LayerPrecedence(t *testing.T) {
	fsys := memFS{"/cfg/config.toml": `
[font]
size = 16

[grid]
rows = 40
cols = 120
`}
	c := load(t,
		WithPath("/cfg/config.toml"),
		WithFileSystem(fsys),
		WithEnviron(func() []string { return []string{"CELLGL_GRID_ROWS=50"} }),
		WithOverrides(map[string]any{"grid.cols": int64(132)}),
	)

	tests := []struct {
		path  string
		want  int
		layer string
	}{
		{"font.size", 16, "user"},
		{"grid.rows", 50, "environment"},
		{"grid.cols", 132, "arguments"},
		{"notifications.width", 40, "builtin"},
	}
	for _, tt := range tests {
		got, err := c.GetInt(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("%s = %d, %v; want %d", tt.path, got, err, tt.want)
		}
		if l := c.WhichLayer(tt.path); l != tt.layer {
			t.Errorf("WhichLayer(%s) = %q, want %q", tt.path, l, tt.layer)
		}
	}
}

func TestConfig_LoadParseError(t *testing.T) {
	fsys := memFS{"/config.toml": "[grid\nrows = 1\n"}
	c := New(WithPath("/config.toml"), WithFileSystem(fsys), WithEnviron(noEnv))
	defer c.Close()

	err := c.Load(context.Background())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Path != "/config.toml" || perr.Line < 1 {
		t.Errorf("ParseError = %+v, want path and line", perr)
	}
	if got := c.Grid().Rows; got != 30 {
		t.Errorf("Grid().Rows = %d, want builtin default after a failed user file", got)
	}
}

func TestConfig_Getters(t *testing.T) {
	c := load(t, WithPath(""), WithOverrides(map[string]any{
		"x.str":      "hello",
		"x.int":      int64(7),
		"x.whole":    3.0,
		"x.frac":     2.5,
		"x.bool":     true,
		"x.list":     []any{"a.lua", "b.lua"},
		"x.badlist":  []any{"a.lua", int64(2)},
		"x.dur":      "250ms",
		"x.secs":     int64(4),
		"x.envdur":   3 * time.Second,
		"x.baddur":   "soon",
		"x.singular": "only.lua",
	}))

	if s, err := c.GetString("x.str"); err != nil || s != "hello" {
		t.Errorf("GetString = %q, %v", s, err)
	}
	if i, err := c.GetInt("x.int"); err != nil || i != 7 {
		t.Errorf("GetInt = %d, %v", i, err)
	}
	if i, err := c.GetInt("x.whole"); err != nil || i != 3 {
		t.Errorf("GetInt(whole float) = %d, %v", i, err)
	}
	if _, err := c.GetInt("x.frac"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt(2.5) err = %v, want ErrTypeMismatch", err)
	}
	if f, err := c.GetFloat("x.int"); err != nil || f != 7 {
		t.Errorf("GetFloat(int) = %v, %v", f, err)
	}
	if b, err := c.GetBool("x.bool"); err != nil || !b {
		t.Errorf("GetBool = %v, %v", b, err)
	}
	if l, err := c.GetStringSlice("x.list"); err != nil || len(l) != 2 || l[1] != "b.lua" {
		t.Errorf("GetStringSlice = %v, %v", l, err)
	}
	if l, err := c.GetStringSlice("x.singular"); err != nil || len(l) != 1 {
		t.Errorf("GetStringSlice(string) = %v, %v", l, err)
	}
	if _, err := c.GetStringSlice("x.badlist"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetStringSlice(bad) err = %v", err)
	}

	durations := []struct {
		path string
		want time.Duration
	}{
		{"x.dur", 250 * time.Millisecond},
		{"x.secs", 4 * time.Second},
		{"x.envdur", 3 * time.Second},
		{"x.frac", 2500 * time.Millisecond},
	}
	for _, tt := range durations {
		if d, err := c.GetDuration(tt.path); err != nil || d != tt.want {
			t.Errorf("GetDuration(%s) = %v, %v; want %v", tt.path, d, err, tt.want)
		}
	}
	if _, err := c.GetDuration("x.baddur"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetDuration(bad) err = %v", err)
	}

	if _, err := c.GetString("x.missing"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("missing err = %v, want ErrSettingNotFound", err)
	}
	var te *TypeError
	if _, err := c.GetString("x.int"); !errors.As(err, &te) || te.Expected != "string" || te.Actual != "int" {
		t.Errorf("type error = %v", err)
	}
}

func TestConfig_Set(t *testing.T) {
	c := load(t, WithPath(""))

	var got notify.Change
	c.SubscribePath("grid", func(ch notify.Change) { got = ch })

	c.Set("grid.rows", int64(12))
	if rows, _ := c.GetInt("grid.rows"); rows != 12 {
		t.Errorf("grid.rows = %d, want 12", rows)
	}
	if got.Path != "grid.rows" || got.OldValue != int64(30) || got.NewValue != int64(12) {
		t.Errorf("change = %+v", got)
	}
	if l := c.WhichLayer("grid.rows"); l != "arguments" {
		t.Errorf("WhichLayer = %q", l)
	}
}

func TestConfig_Reload(t *testing.T) {
	fsys := memFS{"/config.toml": "[theme]\nforeground = \"#ffffff\"\n"}
	c := load(t, WithPath("/config.toml"), WithFileSystem(fsys))

	var changes []notify.Change
	c.Subscribe(func(ch notify.Change) { changes = append(changes, ch) })

	fsys["/config.toml"] = "[theme]\nforeground = \"#000000\"\n[grid]\nrows = 10\n"
	changed, err := c.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(changed) != 2 {
		t.Errorf("changed = %v, want grid.rows and theme.foreground", changed)
	}
	if fg := c.Theme().Foreground.Hex(); fg != "#000000" {
		t.Errorf("foreground = %s", fg)
	}

	last := changes[len(changes)-1]
	if last.Type != notify.ChangeReload || last.Err != nil {
		t.Errorf("last change = %+v, want successful reload", last)
	}
	if len(changes) != 3 {
		t.Errorf("got %d changes, want 2 sets and a reload", len(changes))
	}
}

func TestConfig_ReloadKeepsOldOnError(t *testing.T) {
	fsys := memFS{"/config.toml": "[grid]\nrows = 10\n"}
	c := load(t, WithPath("/config.toml"), WithFileSystem(fsys))

	var reloadErr error
	c.Subscribe(func(ch notify.Change) {
		if ch.Type == notify.ChangeReload {
			reloadErr = ch.Err
		}
	})

	fsys["/config.toml"] = "[grid]\nrows = \n"
	if _, err := c.Reload(); err == nil {
		t.Fatal("Reload should fail")
	}
	var perr *ParseError
	if !errors.As(reloadErr, &perr) {
		t.Errorf("observer err = %v, want *ParseError", reloadErr)
	}
	if rows, _ := c.GetInt("grid.rows"); rows != 10 {
		t.Errorf("grid.rows = %d, want previous value 10", rows)
	}
}

func TestConfig_ReloadAfterClose(t *testing.T) {
	c := New(WithPath(""), WithEnviron(noEnv))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = c.Close()
	if _, err := c.Reload(); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestConfig_WatchReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[grid]\nrows = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := load(t, WithPath(path), WithWatcher(true), WithDebounce(20*time.Millisecond))
	if !c.Watching() {
		t.Fatal("Watching() = false")
	}

	var once sync.Once
	done := make(chan struct{})
	c.Subscribe(func(ch notify.Change) {
		if ch.Type == notify.ChangeReload && ch.Err == nil {
			once.Do(func() { close(done) })
		}
	})

	if err := os.WriteFile(path, []byte("[grid]\nrows = 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
	if rows, _ := c.GetInt("grid.rows"); rows != 20 {
		t.Errorf("grid.rows = %d, want 20", rows)
	}
}
