package gpu

import (
	"image"
	"math"

	"github.com/dshills/cellgl/internal/renderer/atlas"
)

// Texture units the atlases are bound to.
const (
	FontAtlasUnit  = 0
	ColorAtlasUnit = 1
)

// Size is a width and height in logical pixels.
type Size struct {
	W, H float32
}

// Options configures a GlyphRenderer.
type Options struct {
	// FontAtlas is the glyph texture, rasterized at Scale.
	FontAtlas *image.RGBA

	// ColorAtlas is the highlight texture: one column per highlight id,
	// row 0 background, row 1 foreground.
	ColorAtlas *image.RGBA

	// CellSize is the size of one cell in logical pixels.
	CellSize Size

	// Scale is the device pixel ratio. Zero means 1.
	Scale float64

	// Backgrounds adds a pass that fills every cell with its highlight
	// background before the glyph pass.
	Backgrounds bool
}

// GlyphRenderer draws glyph cell records.
type GlyphRenderer struct {
	dev Device

	fg *Program
	bg *Program

	vao       ArrayID
	quad      BufferID
	instances BufferID
	fontTex   TextureID
	colorTex  TextureID

	cell  Size
	scale float64

	fontPixels image.Point
	fontRes    Size
	colorRes   Size
	canvas     Size

	width, height int
	rows, cols    int

	closed bool
}

// New compiles the programs, uploads both atlases and sets up the vertex
// layout. The returned renderer is ready to Render once Resize or ResizeGrid
// has set the canvas resolution.
func New(dev Device, opts Options) (*GlyphRenderer, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	if emptyImage(opts.FontAtlas) || emptyImage(opts.ColorAtlas) {
		return nil, ErrMissingAtlas
	}
	if opts.CellSize.W <= 0 || opts.CellSize.H <= 0 {
		return nil, ErrInvalidCellSize
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	r := &GlyphRenderer{
		dev:   dev,
		cell:  opts.CellSize,
		scale: opts.Scale,
	}

	fg, err := NewProgram(dev, "glyph", foregroundVars(), vertexShader, foregroundShader)
	if err != nil {
		return nil, err
	}
	r.fg = fg

	if opts.Backgrounds {
		bg, err := NewProgram(dev, "background", backgroundVars(), vertexShader, backgroundShader)
		if err != nil {
			fg.Delete()
			return nil, err
		}
		r.bg = bg
	}

	r.vao = dev.CreateVertexArray()
	dev.BindVertexArray(r.vao)

	r.fontTex = dev.CreateTexture()
	r.colorTex = dev.CreateTexture()
	r.forEach(func(p *Program) {
		p.Uniform1i(VarFontAtlasTexture, FontAtlasUnit)
		p.Uniform1i(VarColorAtlasTexture, ColorAtlasUnit)
	})
	r.uploadFont(opts.FontAtlas)
	r.uploadColors(opts.ColorAtlas)

	r.instances = dev.CreateBuffer()
	r.attrib(r.instances, VarCellPosition, locCellPosition, 2, RecordStride, offsetCellPosition, 1)
	r.attrib(r.instances, VarHlid, locHlid, 1, RecordStride, offsetHlid, 1)
	r.attrib(r.instances, VarCharIndex, locCharIndex, 1, RecordStride, offsetCharIndex, 1)

	r.quad = dev.CreateBuffer()
	dev.BufferData(r.quad, quadVertices(r.cell.W, r.cell.H), false)
	r.attrib(r.quad, VarQuadVertex, locQuadVertex, 2, 2*4, 0, 0)

	r.forEach(func(p *Program) {
		p.Uniform2f(VarCellSize, r.cell.W, r.cell.H)
	})

	return r, nil
}

func emptyImage(img *image.RGBA) bool {
	return img == nil || img.Bounds().Empty()
}

// attrib points a program attribute at buf. The location reported by the
// glyph program wins over the layout default.
func (r *GlyphRenderer) attrib(buf BufferID, name string, fallback, size, stride int32, offset int, divisor uint32) {
	loc := r.fg.Loc(name)
	if loc < 0 {
		loc = fallback
	}
	r.dev.VertexAttrib(buf, AttribLayout{
		Location: loc,
		Size:     size,
		Stride:   stride,
		Offset:   offset,
		Divisor:  divisor,
	})
}

// forEach makes each program current in turn and calls fn.
func (r *GlyphRenderer) forEach(fn func(p *Program)) {
	if r.bg != nil {
		r.bg.Use()
		fn(r.bg)
	}
	r.fg.Use()
	fn(r.fg)
}

func (r *GlyphRenderer) uploadFont(img *image.RGBA) {
	r.dev.UploadTexture(FontAtlasUnit, r.fontTex, img)
	r.fontPixels = img.Bounds().Size()
	w, h := atlas.LogicalResolution(img, r.scale)
	r.fontRes = Size{W: w, H: h}
	r.forEach(func(p *Program) {
		p.Uniform2f(VarFontAtlasResolution, w, h)
	})
}

func (r *GlyphRenderer) uploadColors(img *image.RGBA) {
	r.dev.UploadTexture(ColorAtlasUnit, r.colorTex, img)
	b := img.Bounds()
	r.colorRes = Size{W: float32(b.Dx()), H: float32(b.Dy())}
	r.forEach(func(p *Program) {
		p.Uniform2f(VarColorAtlasResolution, r.colorRes.W, r.colorRes.H)
	})
}

func (r *GlyphRenderer) setCanvas(w, h float32) {
	r.canvas = Size{W: w, H: h}
	r.forEach(func(p *Program) {
		p.Uniform2f(VarCanvasResolution, w, h)
	})
}

// Render uploads buffer as instance data and draws len(buffer)/4 cells.
// An empty buffer draws nothing.
func (r *GlyphRenderer) Render(buffer []float32) {
	if r.closed {
		return
	}
	n := InstanceCount(len(buffer))
	if n == 0 {
		return
	}

	r.dev.BindVertexArray(r.vao)
	r.dev.BufferData(r.instances, buffer[:n*RecordFloats], true)

	if r.bg != nil {
		r.bg.Use()
		r.dev.SetBlend(false)
		r.dev.DrawArraysInstanced(0, 6, int32(n))
	}

	r.fg.Use()
	r.dev.SetBlend(true)
	r.dev.DrawArraysInstanced(0, 6, int32(n))
}

// RenderFromBuffer draws the records accumulated in buf.
func (r *GlyphRenderer) RenderFromBuffer(buf *InstanceBuffer) {
	r.Render(buf.Data())
}

// Resize sets the viewport to the framebuffer size in device pixels and the
// canvas resolution to the same size in logical pixels. It forgets the grid
// size, so the next ResizeGrid always applies.
func (r *GlyphRenderer) Resize(width, height int) {
	if r.closed {
		return
	}
	r.width, r.height = width, height
	r.rows, r.cols = 0, 0
	r.dev.Viewport(0, 0, int32(width), int32(height))
	r.setCanvas(
		float32(math.Floor(float64(width)/r.scale)),
		float32(math.Floor(float64(height)/r.scale)),
	)
}

// ResizeGrid sets the canvas resolution to exactly cols x rows cells. It is
// a no-op when the grid size is unchanged.
func (r *GlyphRenderer) ResizeGrid(rows, cols int) {
	if r.closed || (r.rows == rows && r.cols == cols) {
		return
	}
	r.rows, r.cols = rows, cols
	r.setCanvas(float32(cols)*r.cell.W, float32(rows)*r.cell.H)
}

// UpdateFontAtlas re-uploads the font atlas to unit 0.
func (r *GlyphRenderer) UpdateFontAtlas(img *image.RGBA) error {
	if r.closed {
		return ErrClosed
	}
	if emptyImage(img) {
		return ErrMissingAtlas
	}
	r.uploadFont(img)
	return nil
}

// UpdateColorAtlas re-uploads the color atlas to unit 1.
func (r *GlyphRenderer) UpdateColorAtlas(img *image.RGBA) error {
	if r.closed {
		return ErrClosed
	}
	if emptyImage(img) {
		return ErrMissingAtlas
	}
	r.uploadColors(img)
	return nil
}

// SetClearColor sets the color Clear fills with.
func (r *GlyphRenderer) SetClearColor(red, green, blue, alpha float32) {
	if r.closed {
		return
	}
	r.dev.ClearColor(red, green, blue, alpha)
}

// Clear clears the color buffer.
func (r *GlyphRenderer) Clear() {
	if r.closed {
		return
	}
	r.dev.Clear()
}

// SetScale changes the device pixel ratio. The font atlas resolution is
// recomputed from the last uploaded atlas; callers normally follow with
// UpdateFontAtlas for an atlas rasterized at the new scale.
func (r *GlyphRenderer) SetScale(scale float64) {
	if r.closed || scale <= 0 || scale == r.scale {
		return
	}
	r.scale = scale
	w := float32(math.Floor(float64(r.fontPixels.X) / scale))
	h := float32(math.Floor(float64(r.fontPixels.Y) / scale))
	r.fontRes = Size{W: w, H: h}
	r.forEach(func(p *Program) {
		p.Uniform2f(VarFontAtlasResolution, w, h)
	})
	if r.width > 0 && r.height > 0 {
		r.Resize(r.width, r.height)
	}
}

// CellSize returns the cell size in logical pixels.
func (r *GlyphRenderer) CellSize() Size {
	return r.cell
}

// CanvasResolution returns the current canvas resolution.
func (r *GlyphRenderer) CanvasResolution() Size {
	return r.canvas
}

// FontAtlasResolution returns the logical size of the font atlas.
func (r *GlyphRenderer) FontAtlasResolution() Size {
	return r.fontRes
}

// ColorAtlasResolution returns the size of the color atlas.
func (r *GlyphRenderer) ColorAtlasResolution() Size {
	return r.colorRes
}

// Scale returns the device pixel ratio.
func (r *GlyphRenderer) Scale() float64 {
	return r.scale
}

// GridSize returns the last size passed to ResizeGrid, or zeros after a
// Resize.
func (r *GlyphRenderer) GridSize() (rows, cols int) {
	return r.rows, r.cols
}

// Close releases every device object. It is safe to call more than once.
func (r *GlyphRenderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.dev.DeleteBuffer(r.instances)
	r.dev.DeleteBuffer(r.quad)
	r.dev.DeleteTexture(r.fontTex)
	r.dev.DeleteTexture(r.colorTex)
	r.dev.DeleteVertexArray(r.vao)
	if r.bg != nil {
		r.bg.Delete()
	}
	r.fg.Delete()
}
