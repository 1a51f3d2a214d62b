package app

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/dshills/cellgl/internal/event/events"
	"github.com/dshills/cellgl/internal/renderer/backend"
	"github.com/dshills/cellgl/internal/renderer/core"
)

// wakeEvent unblocks PollEvent so queued work runs.
var wakeEvent = backend.Event{Type: backend.EventNone}

// Post queues fn for the UI goroutine and wakes the loop. It is safe for
// concurrent use; fn runs in order with other posted work.
func (app *Application) Post(fn func()) {
	app.mu.Lock()
	app.queue = append(app.queue, fn)
	b := app.backend
	app.mu.Unlock()

	if b != nil && app.running.Load() {
		b.PostEvent(wakeEvent)
	}
}

// drain runs queued work, including work queued while draining.
func (app *Application) drain() {
	for {
		app.mu.Lock()
		queue := app.queue
		app.queue = nil
		app.mu.Unlock()

		if len(queue) == 0 {
			return
		}
		for _, fn := range queue {
			app.safeCall(fn)
		}
	}
}

func (app *Application) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
			app.logger.Error("%v\n%s", err, err.Stack)
		}
	}()
	fn()
}

// Run initializes the backend, runs startup scripts and processes events
// until a quit key, an EventQuit or Shutdown. Run must be called from the
// goroutine that owns the backend; for the GPU backend that is the main
// OS thread.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()
	b.EnableMouse()

	app.applyConfig()
	app.runScripts(ctx)

	stopTicker := app.startTicker(b)
	defer stopTicker()

	return app.eventLoop(b)
}

func (app *Application) eventLoop(b backend.Backend) error {
	for {
		app.drain()
		app.view.Tick(app.now())
		app.render(b)

		select {
		case <-app.done:
			return nil
		default:
		}

		if err := app.handleEvent(b.PollEvent()); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// startTicker wakes the loop periodically so timeouts expire without
// input.
func (app *Application) startTicker(b backend.Backend) (stop func()) {
	ticker := time.NewTicker(app.opts.TickInterval)
	quit := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.PostEvent(wakeEvent)
			case <-quit:
				return
			case <-app.done:
				return
			}
		}
	}()
	return func() { close(quit) }
}

// Shutdown asks Run to return. It is safe for concurrent use.
func (app *Application) Shutdown() {
	app.stopOnce.Do(func() {
		close(app.done)
	})
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b != nil && app.running.Load() {
		b.PostEvent(wakeEvent)
	}
}

// handleEvent returns ErrQuit for q, Ctrl+C and window close. Other events
// go to the notification overlay first, then the document view.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventQuit:
		return ErrQuit
	case backend.EventKey:
		if ev.Key == backend.KeyCtrlC {
			return ErrQuit
		}
		if ev.Key == backend.KeyRune && ev.Rune == 'q' && ev.Mod == backend.ModNone {
			return ErrQuit
		}
	case backend.EventResize:
		publish(app, events.TopicRendererGridResized, events.GridResized{Rows: ev.Height, Cols: ev.Width})
		return nil
	case backend.EventNone:
		return nil
	}

	if app.view.HandleEvent(ev) {
		return nil
	}
	app.text.HandleEvent(ev)
	return nil
}

// render draws the document, the status line and the overlay on top.
func (app *Application) render(b backend.Backend) {
	b.Clear()
	w, h := b.Size()
	if w <= 0 || h <= 0 {
		b.Show()
		return
	}

	textHeight := h - 1
	app.text.Draw(b, core.RectFromSize(0, 0, textHeight, w))

	app.status.SetFilename(app.text.Path())
	app.status.SetPosition(app.text.Top(), textHeight, app.text.LineCount())
	app.status.Render(b, h-1)

	app.view.Draw(b)
	b.Show()
}
