// Package backend abstracts the surface cells are drawn to: a terminal
// through tcell, or a GPU window through the glyph renderer.
package backend

import "github.com/dshills/cellgl/internal/renderer/core"

// EventType identifies the kind of input event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventQuit
)

// Event is an input event in cell coordinates.
type Event struct {
	Type EventType

	Key  Key
	Rune rune
	Mod  ModMask

	MouseX, MouseY int
	MouseButton    MouseButton

	// Width and Height are in cells for EventResize.
	Width, Height int
}

// Key is a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlL
	KeyCtrlX
)

// ModMask is the modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton is the button of a mouse event.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Backend is a grid of cells plus an input source.
type Backend interface {
	// Init must be called before any other method.
	Init() error

	Shutdown()

	// Size returns the grid size in cells.
	Size() (width, height int)

	// OnResize registers a callback for grid size changes.
	OnResize(callback func(width, height int))

	// SetCell ignores positions outside the grid.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns an empty cell outside the grid.
	GetCell(x, y int) core.Cell

	Fill(rect core.ScreenRect, cell core.Cell)

	Clear()

	// Show presents everything drawn since the last Show.
	Show()

	// PollEvent blocks until the next input event.
	PollEvent() Event

	// PostEvent queues a synthetic event; it may be dropped when the queue
	// is full.
	PostEvent(event Event)

	EnableMouse()
	DisableMouse()
}

// DrawString writes s at (x, y) and returns the number of columns used.
// Wide characters occupy two cells.
func DrawString(b Backend, x, y int, s string, style core.Style) int {
	col := x
	for _, cell := range core.CellsFromString(s, style) {
		b.SetCell(col, y, cell)
		col++
	}
	return col - x
}
