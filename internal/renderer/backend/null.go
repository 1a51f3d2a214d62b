package backend

import "github.com/dshills/cellgl/internal/renderer/core"

// NullBackend draws into memory. Tests use it to inspect output and to feed
// synthetic input.
type NullBackend struct {
	grid          *Grid
	resizeHandler func(width, height int)
	events        chan Event
	mouse         bool
	shows         int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		grid:   NewGrid(width, height),
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error { return nil }
func (b *NullBackend) Shutdown()   {}

func (b *NullBackend) Size() (int, int) {
	return b.grid.Size()
}

func (b *NullBackend) OnResize(callback func(width, height int)) {
	b.resizeHandler = callback
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.grid.Set(x, y, cell)
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	return b.grid.Get(x, y)
}

func (b *NullBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	b.grid.Fill(rect, cell)
}

func (b *NullBackend) Clear() {
	b.grid.Clear()
}

func (b *NullBackend) Show() {
	b.shows++
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

func (b *NullBackend) EnableMouse()  { b.mouse = true }
func (b *NullBackend) DisableMouse() { b.mouse = false }

// MouseEnabled reports the last EnableMouse/DisableMouse call.
func (b *NullBackend) MouseEnabled() bool {
	return b.mouse
}

// ShowCount returns how many times Show was called.
func (b *NullBackend) ShowCount() int {
	return b.shows
}

// Row returns row y as a string, for assertions.
func (b *NullBackend) Row(y int) string {
	w, _ := b.grid.Size()
	cells := make([]core.Cell, w)
	for x := range cells {
		cells[x] = b.grid.Get(x, y)
	}
	return core.StringFromCells(cells)
}

// Resize simulates a surface resize.
func (b *NullBackend) Resize(width, height int) {
	b.grid.Resize(width, height)
	if b.resizeHandler != nil {
		b.resizeHandler(width, height)
	}
}
