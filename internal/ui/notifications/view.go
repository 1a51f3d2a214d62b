package notifications

import (
	"time"

	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/renderer/backend"
	"github.com/dshills/cellgl/internal/renderer/core"
)

// Options configures a View.
type Options struct {
	// Width of a box in cells.
	Width int

	// Margin from the top and right edges in cells.
	Margin int

	Styles map[notification.Kind]KindStyle

	// Timeouts dismiss notifications of a kind automatically. Zero or a
	// missing entry keeps them until dismissed.
	Timeouts map[notification.Kind]time.Duration
}

// DefaultOptions returns 40-cell boxes with the default styles and no
// timeouts.
func DefaultOptions() Options {
	return Options{
		Width:  40,
		Margin: 1,
		Styles: DefaultStyles(),
	}
}

// View draws a notification store.
type View struct {
	store *notification.Store
	opts  Options

	// boxes from the last Draw, for hit testing
	boxes []Box
}

// New creates a view of store.
func New(store *notification.Store, opts Options) *View {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions().Width
	}
	if opts.Styles == nil {
		opts.Styles = DefaultStyles()
	}
	return &View{store: store, opts: opts}
}

// SetOptions replaces the options, e.g. after a config reload.
func (v *View) SetOptions(opts Options) {
	if opts.Width <= 0 {
		opts.Width = v.opts.Width
	}
	if opts.Styles == nil {
		opts.Styles = v.opts.Styles
	}
	v.opts = opts
}

// Options returns the current options.
func (v *View) Options() Options {
	return v.opts
}

// Boxes returns the layout of the last Draw.
func (v *View) Boxes() []Box {
	return v.boxes
}

func (v *View) style(k notification.Kind) KindStyle {
	if s, ok := v.opts.Styles[k]; ok {
		return s
	}
	return KindStyle{Header: core.DefaultStyle().Reverse(), Body: core.DefaultStyle()}
}

// Draw paints every notification that fits on b.
func (v *View) Draw(b backend.Backend) {
	w, h := b.Size()
	list := v.store.Notifications()
	v.boxes = Layout(list, w, h, v.opts.Width, v.opts.Margin)

	for _, box := range v.boxes {
		st := v.style(list[box.Index].Kind)
		r := box.Rect

		header := core.RectFromSize(r.Top, r.Left, 1, r.Width())
		b.Fill(header, core.NewStyledCell(' ', st.Header))
		backend.DrawString(b, r.Left+1, r.Top, box.Title, st.Header)
		backend.DrawString(b, box.Close.Col, box.Close.Row, CloseButton, st.Header)

		if len(box.Body) == 0 {
			continue
		}
		body := core.RectFromSize(r.Top+1, r.Left, len(box.Body), r.Width())
		b.Fill(body, core.NewStyledCell(' ', st.Body))
		for i, line := range box.Body {
			backend.DrawString(b, r.Left+1, r.Top+1+i, line, st.Body)
		}
	}
}

// HandleEvent dismisses notifications for a click on a close button, Esc
// (newest) and Ctrl+X (all). It reports whether the event was consumed.
// Clicks elsewhere inside a box are consumed without effect.
func (v *View) HandleEvent(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventMouse:
		if ev.MouseButton != backend.MouseLeft {
			return false
		}
		pos := core.ScreenPos{Row: ev.MouseY, Col: ev.MouseX}
		if ix, ok := HitClose(v.boxes, pos); ok {
			return v.store.Dismiss(ix)
		}
		_, inside := HitBox(v.boxes, pos)
		return inside

	case backend.EventKey:
		switch ev.Key {
		case backend.KeyEscape:
			return v.store.DismissLast()
		case backend.KeyCtrlX:
			if v.store.Len() == 0 {
				return false
			}
			v.store.Clear()
			return true
		}
	}
	return false
}

// Tick removes notifications whose timeout has passed. It reports whether
// anything was removed.
func (v *View) Tick(now time.Time) bool {
	if len(v.opts.Timeouts) == 0 {
		return false
	}
	return v.store.Expire(now, v.timeout) > 0
}

func (v *View) timeout(k notification.Kind) time.Duration {
	return v.opts.Timeouts[k]
}
