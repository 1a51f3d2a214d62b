// Package app wires the event bus, configuration, notification overlay,
// document view and Lua host to a backend and runs the UI loop.
package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/cellgl/internal/config"
	"github.com/dshills/cellgl/internal/config/notify"
	"github.com/dshills/cellgl/internal/event"
	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/plugin"
	"github.com/dshills/cellgl/internal/renderer/atlas"
	"github.com/dshills/cellgl/internal/renderer/backend"
	"github.com/dshills/cellgl/internal/ui/notifications"
	"github.com/dshills/cellgl/internal/ui/statusline"
	"github.com/dshills/cellgl/internal/ui/textview"
)

// DefaultTickInterval drives notification timeouts.
const DefaultTickInterval = 250 * time.Millisecond

// Source stamps events the application publishes.
const Source = "app"

// Application owns every component. Everything except Post and Shutdown
// must be used from the UI goroutine.
type Application struct {
	mu sync.Mutex

	eventBus  event.Bus
	publisher *event.Publisher
	config    *config.Config
	plugins   *plugin.Host

	store  *notification.Store
	view   *notifications.View
	text   *textview.View
	status *statusline.StatusLine

	backend backend.Backend
	colors  *atlas.ColorAtlas

	logger *Logger

	// queue holds work posted from other goroutines
	queue []func()

	unsubscribe func()
	configSub   *notify.Subscription

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
	closed   bool

	opts Options
	now  func() time.Time
}

// Options configures the application.
type Options struct {
	// ConfigPath is the user config file. Empty selects config.DefaultPath.
	ConfigPath string

	// File is shown in the document view.
	File string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// Scripts run after those listed in the config.
	Scripts []string

	Logger *Logger

	// ConfigOptions are appended to the defaults, so they win.
	ConfigOptions []config.Option

	// TickInterval wakes the loop for timeouts. Zero selects
	// DefaultTickInterval.
	TickInterval time.Duration
}

// New bootstraps every component except the backend.
func New(opts Options) (*Application, error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	app := &Application{
		opts:   opts,
		done:   make(chan struct{}),
		logger: opts.Logger,
		now:    time.Now,
	}
	if app.logger == nil {
		app.logger = GetLogger()
	}

	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetBackend must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// SetColorAtlas gives the application the GPU color atlas so theme
// changes rebuild it.
func (app *Application) SetColorAtlas(a *atlas.ColorAtlas) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.colors = a
}

func (app *Application) IsRunning() bool {
	return app.running.Load()
}

func (app *Application) EventBus() event.Bus {
	return app.eventBus
}

func (app *Application) Config() *config.Config {
	return app.config
}

func (app *Application) Notifications() *notification.Store {
	return app.store
}

func (app *Application) NotificationView() *notifications.View {
	return app.view
}

func (app *Application) TextView() *textview.View {
	return app.text
}

func (app *Application) StatusLine() *statusline.StatusLine {
	return app.status
}

func (app *Application) Logger() *Logger {
	return app.logger
}

// Close releases the Lua host, the config watcher and the bus. Call it
// after Run returns.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	app.mu.Unlock()

	newBootstrapper(app).cleanup()
	return nil
}
