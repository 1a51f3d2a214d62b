package backend

import (
	"image"
	"testing"

	"github.com/dshills/cellgl/internal/renderer/atlas"
	"github.com/dshills/cellgl/internal/renderer/core"
	"github.com/dshills/cellgl/internal/renderer/gpu"
)

type fakeSurface struct {
	width, height int
	scale         float64
	events        chan Event
	swaps         int
	closed        bool
}

func newFakeSurface(width, height int) *fakeSurface {
	return &fakeSurface{width: width, height: height, scale: 1, events: make(chan Event, 16)}
}

func (s *fakeSurface) FramebufferSize() (int, int) { return s.width, s.height }
func (s *fakeSurface) ContentScale() float64       { return s.scale }
func (s *fakeSurface) SwapBuffers()                { s.swaps++ }
func (s *fakeSurface) PollEvent() Event            { return <-s.events }
func (s *fakeSurface) PostEvent(event Event)       { s.events <- event }
func (s *fakeSurface) Close()                      { s.closed = true }

type fakeRenderer struct {
	records      []float32
	renders      int
	clears       int
	fontUploads  int
	colorUploads int
	colorWidth   int
	viewport     [2]int
	clearColor   [4]float32
}

func (r *fakeRenderer) RenderFromBuffer(buf *gpu.InstanceBuffer) {
	r.records = append([]float32(nil), buf.Data()...)
	r.renders++
}

func (r *fakeRenderer) Resize(width, height int) { r.viewport = [2]int{width, height} }
func (r *fakeRenderer) Clear()                   { r.clears++ }

func (r *fakeRenderer) SetClearColor(red, green, blue, alpha float32) {
	r.clearColor = [4]float32{red, green, blue, alpha}
}

func (r *fakeRenderer) UpdateFontAtlas(img *image.RGBA) error {
	r.fontUploads++
	return nil
}

func (r *fakeRenderer) UpdateColorAtlas(img *image.RGBA) error {
	r.colorUploads++
	r.colorWidth = img.Bounds().Dx()
	return nil
}

func newTestGPU(t *testing.T, cols, rows int) (*GPU, *fakeSurface, *fakeRenderer, *atlas.FontAtlas) {
	t.Helper()
	font, err := atlas.NewFontAtlas(atlas.FontOptions{Size: 14, Scale: 1})
	if err != nil {
		t.Fatalf("NewFontAtlas: %v", err)
	}
	t.Cleanup(func() { font.Close() })
	font.MarkClean()

	colors := atlas.NewColorAtlas(core.ColorWhite, core.ColorBlack)
	colors.Image()
	colors.MarkClean()

	cw, ch := font.PixelCellSize()
	surface := newFakeSurface(cols*cw+cw/2, rows*ch+ch/2)
	r := &fakeRenderer{}
	g := NewGPU(surface, r, font, colors)
	if err := g.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return g, surface, r, font
}

func TestGPUInitSizesGrid(t *testing.T) {
	g, surface, r, _ := newTestGPU(t, 10, 5)

	if w, h := g.Size(); w != 10 || h != 5 {
		t.Errorf("Size = %d,%d, want 10,5", w, h)
	}
	if r.viewport != [2]int{surface.width, surface.height} {
		t.Errorf("renderer resized to %v", r.viewport)
	}
	if r.clearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("clear color = %v, want default background", r.clearColor)
	}
}

func TestGPUShowPacksCells(t *testing.T) {
	g, surface, r, font := newTestGPU(t, 10, 5)

	red := core.NewStyle(core.ColorRed)
	g.SetCell(2, 1, core.NewStyledCell('A', red))
	g.SetCell(3, 1, core.NewCell('b'))
	g.Show()

	if r.renders != 1 || r.clears != 1 || surface.swaps != 1 {
		t.Fatalf("renders=%d clears=%d swaps=%d", r.renders, r.clears, surface.swaps)
	}
	want := []float32{
		2, 1, 1, float32(font.Index('A')),
		3, 1, 0, float32(font.Index('b')),
	}
	if len(r.records) != len(want) {
		t.Fatalf("records = %v, want %v", r.records, want)
	}
	for i := range want {
		if r.records[i] != want[i] {
			t.Fatalf("records = %v, want %v", r.records, want)
		}
	}
	if r.colorUploads != 1 || r.colorWidth != 2 {
		t.Errorf("color atlas uploads=%d width=%d, want 1 upload of width 2", r.colorUploads, r.colorWidth)
	}
	if r.fontUploads != 0 {
		t.Errorf("font atlas re-uploaded %d times without new glyphs", r.fontUploads)
	}
}

func TestGPUShowUploadsNewGlyphs(t *testing.T) {
	g, _, r, _ := newTestGPU(t, 10, 5)

	g.SetCell(0, 0, core.NewCell('é'))
	g.Show()
	if r.fontUploads != 1 {
		t.Errorf("fontUploads = %d, want 1", r.fontUploads)
	}

	g.Show()
	if r.fontUploads != 1 {
		t.Errorf("fontUploads = %d after clean frame, want 1", r.fontUploads)
	}
}

func TestGPUBlankCellsWithBackground(t *testing.T) {
	g, _, r, _ := newTestGPU(t, 4, 1)

	g.SetCell(1, 0, core.NewStyledCell(' ', core.DefaultStyle().WithBackground(core.ColorBlue)))
	g.Show()

	if got := len(r.records) / gpu.RecordFloats; got != 1 {
		t.Fatalf("packed %d cells, want 1", got)
	}
	if r.records[0] != 1 || r.records[3] != atlas.IndexBlank {
		t.Errorf("record = %v", r.records[:4])
	}
}

func TestGPUResizeEvent(t *testing.T) {
	g, surface, r, font := newTestGPU(t, 10, 5)
	cw, ch := font.PixelCellSize()

	var gotW, gotH int
	g.OnResize(func(w, h int) { gotW, gotH = w, h })

	surface.PostEvent(Event{Type: EventResize, Width: 20 * cw, Height: 8 * ch})
	ev := g.PollEvent()

	if ev.Type != EventResize || ev.Width != 20 || ev.Height != 8 {
		t.Errorf("event = %+v, want resize to 20x8 cells", ev)
	}
	if gotW != 20 || gotH != 8 {
		t.Errorf("OnResize got %d,%d", gotW, gotH)
	}
	if r.viewport != [2]int{20 * cw, 8 * ch} {
		t.Errorf("renderer viewport = %v", r.viewport)
	}
}

func TestGPUMouseEvents(t *testing.T) {
	g, surface, _, font := newTestGPU(t, 10, 5)
	cw, ch := font.CellSize()

	surface.PostEvent(Event{Type: EventMouse, MouseX: 1, MouseY: 1, MouseButton: MouseLeft})
	surface.PostEvent(Event{Type: EventKey, Key: KeyEscape})
	if ev := g.PollEvent(); ev.Type != EventKey {
		t.Fatalf("mouse event delivered while disabled: %+v", ev)
	}

	g.EnableMouse()
	surface.PostEvent(Event{Type: EventMouse, MouseX: int(3*cw) + 1, MouseY: int(2*ch) + 1, MouseButton: MouseLeft})
	ev := g.PollEvent()
	if ev.Type != EventMouse || ev.MouseX != 3 || ev.MouseY != 2 {
		t.Errorf("event = %+v, want mouse at cell 3,2", ev)
	}
}

func TestGPUShutdownClosesSurface(t *testing.T) {
	g, surface, _, _ := newTestGPU(t, 2, 2)
	g.Shutdown()
	if !surface.closed {
		t.Error("surface not closed")
	}
}
