package plugin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dshills/cellgl/internal/event"
	"github.com/dshills/cellgl/internal/event/events"
	plua "github.com/dshills/cellgl/internal/plugin/lua"
)

// ModuleName is the global table scripts use.
const ModuleName = "cellgl"

// Source stamps the lifecycle events the host publishes.
const Source = "lua"

// Logger receives script output and host diagnostics.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Host owns one Lua state shared by every script it runs.
type Host struct {
	mu     sync.Mutex
	bus    event.Bus
	pub    *event.Publisher
	log    Logger
	state  *plua.State
	closed bool

	timeout time.Duration
}

// HostOption configures a Host.
type HostOption func(*Host)

func WithLogger(l Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// WithTimeout bounds each script run.
func WithTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.timeout = d
	}
}

// NewHost creates a host publishing to bus.
func NewHost(bus event.Bus, opts ...HostOption) (*Host, error) {
	if bus == nil {
		return nil, ErrNilBus
	}

	h := &Host{
		bus:     bus,
		pub:     event.NewPublisher(bus, Source),
		log:     nopLogger{},
		timeout: plua.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	state, err := plua.NewState(
		plua.WithTimeout(h.timeout),
		plua.WithPrint(func(s string) { h.log.Info("lua: %s", s) }),
	)
	if err != nil {
		return nil, err
	}
	if err := state.RegisterModule(ModuleName, h.moduleFuncs()); err != nil {
		state.Close()
		return nil, err
	}
	h.state = state
	return h, nil
}

// RunFile executes a script file.
func (h *Host) RunFile(ctx context.Context, path string) error {
	state, err := h.current()
	if err != nil {
		return err
	}
	h.log.Debug("running script %s", path)
	return state.DoFile(ctx, path)
}

// RunString executes code as a chunk called name.
func (h *Host) RunString(ctx context.Context, name, code string) error {
	state, err := h.current()
	if err != nil {
		return err
	}
	return state.DoString(ctx, name, code)
}

// RunScripts runs each path in order. A failing script is logged and does
// not stop the rest; all failures are joined into the result. Every run
// publishes events.ScriptLoaded or events.ScriptFailed.
func (h *Host) RunScripts(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := h.RunFile(ctx, path); err != nil {
			h.log.Error("script %s: %v", path, err)
			errs = append(errs, &ScriptError{Path: path, Err: err})
			h.published(event.PublishEvent(ctx, h.pub, events.TopicPluginScriptFailed,
				events.ScriptFailed{Path: path, Err: err}))
			continue
		}
		h.published(event.PublishEvent(ctx, h.pub, events.TopicPluginScriptLoaded,
			events.ScriptLoaded{Path: path}))
	}
	return errors.Join(errs...)
}

func (h *Host) published(err error) {
	if err != nil {
		h.log.Warn("publish: %v", err)
	}
}

// Close releases the Lua state. It is idempotent.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return h.state.Close()
}

func (h *Host) current() (*plua.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHostClosed
	}
	return h.state, nil
}
