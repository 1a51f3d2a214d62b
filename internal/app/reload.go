package app

import (
	"context"
	"errors"

	"github.com/dshills/cellgl/internal/event"
	"github.com/dshills/cellgl/internal/event/events"
	"github.com/dshills/cellgl/internal/event/topic"
	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/renderer/core"
	"github.com/dshills/cellgl/internal/ui/notifications"
	"github.com/dshills/cellgl/internal/ui/statusline"
	"github.com/dshills/cellgl/internal/ui/textview"
)

// Titles of notifications the application publishes itself.
const (
	TitleConfigReloaded = "Configuration reloaded"
	TitleConfigError    = "Configuration error"
	TitleScriptFailed   = "Script failed"
)

// applyConfig pushes the current config into every view and the color
// atlas.
func (app *Application) applyConfig() {
	theme := app.config.Theme()
	nc := app.config.Notifications()

	styles := notifications.DefaultStyles()
	for kind, accent := range theme.Notifications {
		styles[kind] = notifications.StyleFor(accent, theme.NotificationText)
	}
	app.view.SetOptions(notifications.Options{
		Width:    nc.Width,
		Margin:   nc.Margin,
		Styles:   styles,
		Timeouts: nc.Timeouts,
	})

	app.text.SetStyles(textview.Styles{
		Gutter: theme.Highlight("gutter"),
		Number: theme.Highlight("gutterNr"),
		Text:   core.DefaultStyle(),
	})
	app.status.SetStyle(theme.Highlight("status"))

	app.mu.Lock()
	colors := app.colors
	app.mu.Unlock()
	if colors != nil {
		// Reset drops ids of styles the old theme registered; the next
		// frame re-registers what it draws and uploads the new atlas.
		colors.SetDefaults(theme.Foreground, theme.Background)
		colors.Reset()
		bounds := colors.Image().Bounds()
		publish(app, events.TopicRendererAtlasColor, events.AtlasUpdated{
			Width:   bounds.Dx(),
			Height:  bounds.Dy(),
			Entries: colors.Len(),
		})
	}

	app.applyLogLevel()
	for path, err := range app.config.ConfigErrors() {
		app.logger.WithComponent("config").Warn("%s: %v", path, err)
	}
}

func (app *Application) applyLogLevel() {
	level := app.opts.LogLevel
	if level == "" {
		level = app.config.Logging().Level
	}
	app.logger.SetLevel(ParseLogLevel(level))
}

// configReloaded runs on the UI goroutine after the watcher reloaded the
// user file.
func (app *Application) configReloaded(err error) {
	ctx := context.Background()
	if err != nil {
		app.logger.WithComponent("config").Error("reload: %v", err)
		app.reportConfigError(err)
		publish(app, events.TopicConfigReloadFailed, events.ConfigReloadFailed{Path: app.config.Path(), Err: err})
		return
	}

	app.applyConfig()
	app.status.ClearMessage()
	app.logger.WithComponent("config").Info("reloaded %s", app.config.Path())
	publish(app, events.TopicConfigReloaded, events.ConfigReloaded{Path: app.config.Path()})
	if perr := notification.Info(ctx, app.eventBus, TitleConfigReloaded, app.config.Path()); perr != nil {
		app.logger.Warn("publish: %v", perr)
	}
}

// reportConfigError shows err in the status line and as an error
// notification. The previous configuration stays in effect.
func (app *Application) reportConfigError(err error) {
	app.status.SetMessage("config: "+err.Error(), statusline.MessageError)
	if perr := notification.Error(context.Background(), app.eventBus, TitleConfigError, err.Error()); perr != nil {
		app.logger.Warn("publish: %v", perr)
	}
}

// runScripts runs the configured scripts, then Options.Scripts. Each
// failure becomes an error notification.
func (app *Application) runScripts(ctx context.Context) {
	var paths []string
	if sc := app.config.Scripts(); sc.Enabled {
		paths = append(paths, sc.Paths...)
	}
	paths = append(paths, app.opts.Scripts...)
	if len(paths) == 0 {
		return
	}

	err := app.plugins.RunScripts(ctx, paths)
	if err == nil {
		return
	}
	errs := []error{err}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		if perr := notification.Error(ctx, app.eventBus, TitleScriptFailed, e.Error()); perr != nil {
			app.logger.Warn("publish: %v", perr)
		}
	}
}

// publish sends an application event. Failures are logged only.
func publish[T any](app *Application, t topic.Topic, payload T) {
	if err := event.PublishEvent(context.Background(), app.publisher, t, payload); err != nil {
		app.logger.Warn("publish %s: %v", t, err)
	}
}
