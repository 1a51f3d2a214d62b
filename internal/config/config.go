package config

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/cellgl/internal/config/layer"
	"github.com/dshills/cellgl/internal/config/loader"
	"github.com/dshills/cellgl/internal/config/notify"
	"github.com/dshills/cellgl/internal/config/watcher"
)

// Config is the merged view of every configuration layer.
type Config struct {
	mu     sync.RWMutex
	layers *layer.Manager

	path    string
	fs      loader.FileSystem
	environ func() []string
	args    map[string]any

	notifier      *notify.Notifier
	watcher       *watcher.Watcher
	enableWatcher bool
	debounce      time.Duration
	closed        bool

	// first type error per path, found while reading sections
	configErrors map[string]error
}

// Option configures a Config.
type Option func(*Config)

// WithPath sets the user file. An empty path skips the user layer.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem reads the user file from fsys. Watching still uses the
// real file system.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnviron replaces the process environment for the env layer.
func WithEnviron(environ func() []string) Option {
	return func(c *Config) {
		c.environ = environ
	}
}

// WithOverrides installs the arguments layer; keys are dotted paths.
func WithOverrides(values map[string]any) Option {
	return func(c *Config) {
		for path, v := range values {
			layer.SetByPath(c.args, path, v)
		}
	}
}

// WithWatcher enables live reload of the user file.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithDebounce sets the watcher's quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

func New(opts ...Option) *Config {
	c := &Config{
		layers:   layer.NewManager(),
		path:     DefaultPath(),
		fs:       loader.OSFS{},
		args:     make(map[string]any),
		notifier: notify.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads every layer and, when enabled, starts watching the user file
// and its includes. A missing user file is not an error. A user file that
// fails to load is skipped and its error returned after the other layers
// and the watcher are set up, so fixing the file triggers a reload.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()

	c.layers.SetLayer(layer.New(layer.SourceBuiltin, "", defaultConfig()))

	tl := loader.NewTOMLLoaderWithFS(c.fs, c.path)
	var userErr error
	if c.path != "" {
		data, err := tl.Load()
		switch {
		case err != nil:
			userErr = err
		case data != nil:
			c.layers.SetLayer(layer.New(layer.SourceUser, c.path, data))
		}
	}

	env := loader.NewEnvLoader()
	if c.environ != nil {
		env = loader.NewEnvLoaderWithEnviron(c.environ)
	}
	data, err := env.Load()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if len(data) > 0 {
		c.layers.SetLayer(layer.New(layer.SourceEnv, "", data))
	}

	if len(c.args) > 0 {
		c.layers.SetLayer(layer.New(layer.SourceArgs, "", c.args))
	}
	c.configErrors = nil

	watch := c.enableWatcher && c.path != "" && c.watcher == nil
	c.mu.Unlock()

	if watch {
		if err := c.startWatcher(tl.Files()); err != nil {
			return errors.Join(userErr, err)
		}
	}
	return userErr
}

func (c *Config) startWatcher(files []string) error {
	var opts []watcher.Option
	if c.debounce > 0 {
		opts = append(opts, watcher.WithDebounce(c.debounce))
	}
	w, err := watcher.New(opts...)
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	if err := w.SetFiles(files); err != nil {
		_ = w.Stop()
		return fmt.Errorf("config watcher: %w", err)
	}
	w.OnChange(c.handleFileChange)
	w.Start()

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

func (c *Config) handleFileChange(event watcher.Event) {
	_, _ = c.Reload()
}

// Reload re-reads the user file and returns the paths whose effective
// value changed. Observers get one change per path followed by a
// ChangeReload. On failure the previous user layer stays and observers get
// a ChangeReload carrying the error.
func (c *Config) Reload() ([]string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}

	tl := loader.NewTOMLLoaderWithFS(c.fs, c.path)
	data, err := tl.Load()
	if err != nil {
		c.mu.Unlock()
		c.notifier.NotifyReload(c.path, err)
		return nil, err
	}

	before := c.layers.Merge()
	if data == nil {
		c.layers.RemoveLayer(layer.SourceUser)
	} else {
		c.layers.SetLayer(layer.New(layer.SourceUser, c.path, data))
	}
	after := c.layers.Merge()
	c.configErrors = nil
	w := c.watcher
	c.mu.Unlock()

	if w != nil {
		// includes may have changed
		_ = w.SetFiles(tl.Files())
	}

	added, modified, removed := layer.DiffMaps(before, after)
	var changed []string
	for _, p := range append(added, modified...) {
		oldValue, _ := layer.GetByPath(before, p)
		newValue, _ := layer.GetByPath(after, p)
		c.notifier.NotifySet(p, oldValue, newValue, layer.SourceUser.String())
		changed = append(changed, p)
	}
	for _, p := range removed {
		oldValue, _ := layer.GetByPath(before, p)
		c.notifier.NotifyDelete(p, oldValue, layer.SourceUser.String())
		changed = append(changed, p)
	}
	c.notifier.NotifyReload(c.path, nil)
	return changed, nil
}

// Close stops the watcher and drops observers.
func (c *Config) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	c.notifier.Close()
	if w != nil {
		return w.Stop()
	}
	return nil
}

// Path is the user file, possibly "".
func (c *Config) Path() string {
	return c.path
}

// Watching reports whether live reload is active.
func (c *Config) Watching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.watcher != nil
}

// Subscribe registers an observer for every change.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Get returns the effective value at path.
func (c *Config) Get(path string) (any, bool) {
	return c.layers.Get(path)
}

// WhichLayer names the layer providing path, or "" when none does.
func (c *Config) WhichLayer(path string) string {
	src, ok := c.layers.WhichLayer(path)
	if !ok {
		return ""
	}
	return src.String()
}

// Merged returns a copy of the merged configuration.
func (c *Config) Merged() map[string]any {
	return c.layers.Merge()
}

// Set overrides path in the arguments layer.
func (c *Config) Set(path string, value any) {
	c.mu.Lock()
	old, _ := c.layers.Get(path)
	layer.SetByPath(c.args, path, value)
	c.layers.SetLayer(layer.New(layer.SourceArgs, "", c.args))
	c.mu.Unlock()

	c.notifier.NotifySet(path, old, value, layer.SourceArgs.String())
}

func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float", Actual: typeName(v)}
	}
}

func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "array of strings", Actual: typeName(v)}
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, &TypeError{Path: path, Expected: "array of strings", Actual: typeName(v)}
	}
}

// GetDuration accepts a duration string such as "5s", a time.Duration from
// the environment, or a number of seconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		d, err := time.ParseDuration(val)
		if err == nil {
			return d, nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
}
