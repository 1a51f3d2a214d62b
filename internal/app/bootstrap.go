package app

import (
	"context"
	"time"

	"github.com/dshills/cellgl/internal/config"
	"github.com/dshills/cellgl/internal/config/notify"
	"github.com/dshills/cellgl/internal/event"
	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/plugin"
	"github.com/dshills/cellgl/internal/ui/notifications"
	"github.com/dshills/cellgl/internal/ui/statusline"
	"github.com/dshills/cellgl/internal/ui/textview"
)

// bootstrapper initializes components in dependency order.
type bootstrapper struct {
	app *Application
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app}
}

// bootstrap cleans up already initialized components on failure.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initEventBus,
		b.initNotifications,
		b.initDocument,
		b.initConfig,
		b.initPlugins,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initEventBus() error {
	log := b.app.logger.WithComponent("event")
	b.app.eventBus = event.NewBus(event.WithBusPanicHandler(func(ev any, recovered any, stack []byte) {
		log.Error("handler panic on %T: %v\n%s", ev, recovered, stack)
	}))
	if err := b.app.eventBus.Start(); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}
	b.app.publisher = event.NewPublisher(b.app.eventBus, Source)
	return nil
}

// initNotifications subscribes the store to the bus. Notifications are
// marshalled onto the UI goroutine.
func (b *bootstrapper) initNotifications() error {
	app := b.app
	app.store = notification.NewStore()
	app.view = notifications.New(app.store, notifications.DefaultOptions())

	log := app.logger.WithComponent("notification")
	unsubscribe, err := notification.Subscribe(app.eventBus, func(n notification.Notification) {
		log.Debug("%s: %s", n.Kind, n.Title)
		app.Post(func() { app.store.Notify(n) })
	})
	if err != nil {
		return &InitError{Component: "notifications", Err: err}
	}
	app.unsubscribe = unsubscribe
	return nil
}

// initConfig loads the config. A broken user file is reported as an error
// notification, not a startup failure.
func (b *bootstrapper) initConfig() error {
	app := b.app
	path := app.opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	opts := append([]config.Option{
		config.WithPath(path),
		config.WithWatcher(true),
	}, app.opts.ConfigOptions...)
	app.config = config.New(opts...)

	if err := app.config.Load(context.Background()); err != nil {
		app.logger.WithComponent("config").Warn("load %s: %v", path, err)
		app.reportConfigError(err)
	}

	app.configSub = app.config.Subscribe(func(ch notify.Change) {
		if ch.Type != notify.ChangeReload {
			return
		}
		app.Post(func() { app.configReloaded(ch.Err) })
	})
	app.applyLogLevel()
	return nil
}

func (b *bootstrapper) initDocument() error {
	app := b.app
	text, err := textview.Load(app.opts.File)
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}
	app.text = text
	app.status = statusline.New()
	return nil
}

func (b *bootstrapper) initPlugins() error {
	app := b.app
	host, err := plugin.NewHost(app.eventBus, plugin.WithLogger(app.logger.WithComponent("lua")))
	if err != nil {
		return &InitError{Component: "plugins", Err: err}
	}
	app.plugins = host
	return nil
}

// cleanup releases components in reverse order. Missing ones are skipped.
func (b *bootstrapper) cleanup() {
	app := b.app
	if app.plugins != nil {
		_ = app.plugins.Close()
	}
	if app.configSub != nil {
		app.configSub.Unsubscribe()
	}
	if app.config != nil {
		_ = app.config.Close()
	}
	if app.unsubscribe != nil {
		app.unsubscribe()
	}
	if app.eventBus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.eventBus.Stop(ctx)
	}
}
