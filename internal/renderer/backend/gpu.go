package backend

import (
	"image"
	"math"
	"sync"

	"github.com/dshills/cellgl/internal/renderer/atlas"
	"github.com/dshills/cellgl/internal/renderer/core"
	"github.com/dshills/cellgl/internal/renderer/gpu"
)

// Surface is a window with a GL context. Resize events carry the new
// framebuffer size in device pixels; mouse events carry positions in
// logical pixels.
type Surface interface {
	FramebufferSize() (width, height int)
	ContentScale() float64
	SwapBuffers()
	PollEvent() Event
	PostEvent(event Event)
	Close()
}

// GlyphRenderer is the part of gpu.GlyphRenderer the GPU backend drives.
type GlyphRenderer interface {
	RenderFromBuffer(buf *gpu.InstanceBuffer)
	Resize(width, height int)
	Clear()
	SetClearColor(r, g, b, a float32)
	UpdateFontAtlas(img *image.RGBA) error
	UpdateColorAtlas(img *image.RGBA) error
}

var _ GlyphRenderer = (*gpu.GlyphRenderer)(nil)

// GPU implements Backend on a window. Show packs the grid into glyph cell
// records, re-uploads atlases that changed and issues the draw.
type GPU struct {
	surface  Surface
	renderer GlyphRenderer
	font     *atlas.FontAtlas
	colors   *atlas.ColorAtlas

	grid *Grid
	buf  *gpu.InstanceBuffer

	resizeHandler func(width, height int)
	mouse         bool
	frames        int

	mu sync.Mutex
}

// NewGPU creates a GPU backend. The renderer must have been created from the
// same atlases.
func NewGPU(surface Surface, renderer GlyphRenderer, font *atlas.FontAtlas, colors *atlas.ColorAtlas) *GPU {
	return &GPU{
		surface:  surface,
		renderer: renderer,
		font:     font,
		colors:   colors,
		grid:     NewGrid(0, 0),
		buf:      gpu.NewInstanceBuffer(0),
	}
}

func (g *GPU) Init() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	w, h := g.surface.FramebufferSize()
	g.resizeLocked(w, h)
	g.applyClearColor()
	return nil
}

func (g *GPU) Shutdown() {
	g.surface.Close()
}

// gridSize converts a framebuffer size to whole cells.
func (g *GPU) gridSize(fbWidth, fbHeight int) (cols, rows int) {
	cw, ch := g.font.PixelCellSize()
	if cw <= 0 || ch <= 0 {
		return 0, 0
	}
	return fbWidth / cw, fbHeight / ch
}

func (g *GPU) resizeLocked(fbWidth, fbHeight int) (cols, rows int) {
	cols, rows = g.gridSize(fbWidth, fbHeight)
	g.grid.Resize(cols, rows)
	g.renderer.Resize(fbWidth, fbHeight)
	return cols, rows
}

func (g *GPU) applyClearColor() {
	_, bg := g.colors.Defaults()
	c := bg.RGBA()
	g.renderer.SetClearColor(float32(c[0])/255, float32(c[1])/255, float32(c[2])/255, 1)
}

func (g *GPU) Size() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Size()
}

func (g *GPU) OnResize(callback func(width, height int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resizeHandler = callback
}

func (g *GPU) SetCell(x, y int, cell core.Cell) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grid.Set(x, y, cell)
}

func (g *GPU) GetCell(x, y int) core.Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Get(x, y)
}

func (g *GPU) Fill(rect core.ScreenRect, cell core.Cell) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grid.Fill(rect, cell)
}

func (g *GPU) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.grid.Clear()
}

// Show draws the grid and swaps buffers.
func (g *GPU) Show() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pack()

	if g.font.Dirty() {
		if err := g.renderer.UpdateFontAtlas(g.font.Image()); err == nil {
			g.font.MarkClean()
		}
	}
	if g.colors.Dirty() {
		if err := g.renderer.UpdateColorAtlas(g.colors.Image()); err == nil {
			g.colors.MarkClean()
			g.applyClearColor()
		}
	}

	g.renderer.Clear()
	g.renderer.RenderFromBuffer(g.buf)
	g.surface.SwapBuffers()
	g.grid.MarkClean()
	g.frames++
}

// pack rebuilds the instance buffer from the grid. Blank default cells are
// left to the clear color.
func (g *GPU) pack() {
	g.buf.Reset()
	g.grid.Each(func(x, y int, cell core.Cell) {
		if cell.IsContinuation() {
			return
		}
		if cell.IsEmpty() && cell.Style == core.DefaultStyle() {
			return
		}
		r := cell.Rune
		if r == 0 {
			r = ' '
		}
		g.buf.Push(x, y, g.colors.Register(cell.Style), g.font.Index(r))
	})
}

// Instances returns the records packed by the last Show.
func (g *GPU) Instances() *gpu.InstanceBuffer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buf
}

// Frames returns the number of Show calls.
func (g *GPU) Frames() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frames
}

// PollEvent returns the next surface event translated to cells. Mouse
// events are dropped while the mouse is disabled.
func (g *GPU) PollEvent() Event {
	for {
		ev := g.surface.PollEvent()
		switch ev.Type {
		case EventResize:
			g.mu.Lock()
			cols, rows := g.resizeLocked(ev.Width, ev.Height)
			handler := g.resizeHandler
			g.mu.Unlock()
			if handler != nil {
				handler(cols, rows)
			}
			return Event{Type: EventResize, Width: cols, Height: rows}

		case EventMouse:
			g.mu.Lock()
			enabled := g.mouse
			g.mu.Unlock()
			if !enabled {
				continue
			}
			ev.MouseX, ev.MouseY = g.cellAt(ev.MouseX, ev.MouseY)
			return ev

		default:
			return ev
		}
	}
}

// cellAt converts a logical pixel position to a cell position.
func (g *GPU) cellAt(px, py int) (int, int) {
	cw, ch := g.font.CellSize()
	if cw <= 0 || ch <= 0 {
		return 0, 0
	}
	return int(math.Floor(float64(px) / float64(cw))), int(math.Floor(float64(py) / float64(ch)))
}

func (g *GPU) PostEvent(event Event) {
	g.surface.PostEvent(event)
}

func (g *GPU) EnableMouse() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mouse = true
}

func (g *GPU) DisableMouse() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mouse = false
}
