// Package window opens a GLFW window with an OpenGL 3.3 core context and
// turns its callbacks into backend events.
//
// GLFW requires every call except PostEmptyEvent to happen on the main
// thread. The caller must lock the UI goroutine to the main OS thread
// (runtime.LockOSThread in an init function) before calling New and must
// use the Window only from that goroutine. PostEvent is the exception and
// may be called from anywhere.
package window

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/dshills/cellgl/internal/renderer/backend"
)

// ErrClosed is returned by New after the window system failed to start.
var ErrClosed = errors.New("window: closed")

// Options configures a window.
type Options struct {
	Title string

	// Width and Height are the initial client size in logical pixels.
	Width, Height int
}

// Window is a GLFW window. It implements backend.Surface.
type Window struct {
	win *glfw.Window

	mu     sync.Mutex
	queue  []backend.Event
	closed bool

	scale float64
}

var _ backend.Surface = (*Window)(nil)

// New initializes GLFW, creates the window and makes its context current.
func New(opts Options) (*Window, error) {
	if opts.Width <= 0 {
		opts.Width = 960
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &Window{win: win}
	sx, _ := win.GetContentScale()
	w.scale = float64(sx)
	if w.scale <= 0 {
		w.scale = 1
	}

	win.SetKeyCallback(w.onKey)
	win.SetCharCallback(w.onChar)
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetScrollCallback(w.onScroll)
	win.SetFramebufferSizeCallback(w.onFramebufferSize)
	win.SetContentScaleCallback(w.onContentScale)
	win.SetCloseCallback(w.onClose)

	return w, nil
}

// FramebufferSize returns the drawable size in device pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// ContentScale returns the device pixel ratio.
func (w *Window) ContentScale() float64 {
	return w.scale
}

func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

// PollEvent returns the next queued event, waiting for the window system
// when the queue is empty. It returns an EventQuit once the window was
// asked to close.
func (w *Window) PollEvent() backend.Event {
	for {
		if ev, ok := w.pop(); ok {
			return ev
		}
		if w.win.ShouldClose() {
			return backend.Event{Type: backend.EventQuit}
		}
		glfw.WaitEvents()
	}
}

// PostEvent queues ev and wakes PollEvent. It is safe for concurrent use.
func (w *Window) PostEvent(ev backend.Event) {
	w.push(ev)
	glfw.PostEmptyEvent()
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.win.Destroy()
	glfw.Terminate()
}

func (w *Window) push(ev backend.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = append(w.queue, ev)
}

func (w *Window) pop() (backend.Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return backend.Event{}, false
	}
	ev := w.queue[0]
	w.queue = w.queue[1:]
	return ev, true
}

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	k, ok := translateKey(key, mods)
	if !ok {
		return
	}
	w.push(backend.Event{Type: backend.EventKey, Key: k, Mod: translateMods(mods)})
}

func (w *Window) onChar(_ *glfw.Window, char rune) {
	w.push(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: char})
}

func (w *Window) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	var b backend.MouseButton
	switch button {
	case glfw.MouseButtonLeft:
		b = backend.MouseLeft
	case glfw.MouseButtonMiddle:
		b = backend.MouseMiddle
	case glfw.MouseButtonRight:
		b = backend.MouseRight
	default:
		return
	}
	x, y := w.cursor()
	w.push(backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, MouseButton: b, Mod: translateMods(mods)})
}

func (w *Window) onScroll(_ *glfw.Window, _, yoff float64) {
	b := backend.MouseWheelDown
	if yoff > 0 {
		b = backend.MouseWheelUp
	}
	x, y := w.cursor()
	w.push(backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, MouseButton: b})
}

func (w *Window) onFramebufferSize(_ *glfw.Window, width, height int) {
	w.push(backend.Event{Type: backend.EventResize, Width: width, Height: height})
}

func (w *Window) onContentScale(_ *glfw.Window, x, _ float32) {
	if x > 0 {
		w.scale = float64(x)
	}
}

func (w *Window) onClose(_ *glfw.Window) {
	w.push(backend.Event{Type: backend.EventQuit})
}

// cursor returns the cursor position in logical pixels. GLFW reports it in
// screen coordinates, which match logical pixels on some platforms and
// device pixels on others.
func (w *Window) cursor() (int, int) {
	cx, cy := w.win.GetCursorPos()
	fbw, fbh := w.win.GetFramebufferSize()
	ww, wh := w.win.GetSize()
	return toLogical(cx, fbw, ww, w.scale), toLogical(cy, fbh, wh, w.scale)
}

func toLogical(pos float64, framebuffer, window int, scale float64) int {
	if window <= 0 || scale <= 0 {
		return int(pos)
	}
	return int(pos * float64(framebuffer) / float64(window) / scale)
}
