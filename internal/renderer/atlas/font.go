package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// IndexBlank is the char index of the space glyph.
	IndexBlank = 0

	initialCapacity = 128
)

// ErrInvalidScale is returned for a non-positive scale factor.
var ErrInvalidScale = errors.New("atlas: scale must be positive")

// FontOptions configures a FontAtlas.
type FontOptions struct {
	// Data is a TTF/OTF font. Nil selects Go Mono.
	Data []byte

	// Size is the font size in points at 72 DPI, i.e. logical pixels.
	Size float64

	// Scale is the device pixel ratio. Glyphs are rasterized at Size*Scale.
	Scale float64
}

// FontAtlas rasterizes glyphs into a single row of equally sized cells. The
// char index of a rune is its cell position in that row.
type FontAtlas struct {
	face   font.Face
	scale  float64
	ascent int

	// cell size in device pixels
	cellW, cellH int

	img      *image.RGBA
	capacity int
	indices  map[rune]int
	runes    []rune

	replacement int
	dirty       bool
}

// NewFontAtlas parses the font and pre-rasterizes printable ASCII.
func NewFontAtlas(opts FontOptions) (*FontAtlas, error) {
	if opts.Scale <= 0 {
		return nil, ErrInvalidScale
	}
	if opts.Size <= 0 {
		opts.Size = 14
	}
	data := opts.Data
	if data == nil {
		data = gomono.TTF
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    opts.Size * opts.Scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	metrics := face.Metrics()
	advance, _ := face.GlyphAdvance('M')

	a := &FontAtlas{
		face:    face,
		scale:   opts.Scale,
		ascent:  metrics.Ascent.Ceil(),
		cellW:   advance.Ceil(),
		cellH:   (metrics.Ascent + metrics.Descent).Ceil(),
		indices: make(map[rune]int),
	}
	a.grow(initialCapacity)

	a.add(' ')
	for r := rune(33); r <= 126; r++ {
		a.add(r)
	}
	a.replacement = a.indexOf('?')
	if _, ok := face.GlyphAdvance('\uFFFD'); ok {
		a.replacement = a.add('\uFFFD')
	}

	a.dirty = true
	return a, nil
}

// Index returns the char index for r, rasterizing it on first use. Runes the
// face has no glyph for map to the replacement glyph; control runes map to
// the blank cell.
func (a *FontAtlas) Index(r rune) int {
	if i, ok := a.indices[r]; ok {
		return i
	}
	if r < ' ' || r == 0x7f {
		return IndexBlank
	}
	if _, ok := a.face.GlyphAdvance(r); !ok {
		a.indices[r] = a.replacement
		return a.replacement
	}
	return a.add(r)
}

// Has reports whether r already has a cell.
func (a *FontAtlas) Has(r rune) bool {
	_, ok := a.indices[r]
	return ok
}

// ReplacementIndex is the cell used for runes the font lacks.
func (a *FontAtlas) ReplacementIndex() int {
	return a.replacement
}

func (a *FontAtlas) indexOf(r rune) int {
	if i, ok := a.indices[r]; ok {
		return i
	}
	return IndexBlank
}

func (a *FontAtlas) add(r rune) int {
	i := len(a.runes)
	if i >= a.capacity {
		a.grow(a.capacity * 2)
	}

	d := &font.Drawer{
		Dst:  a.img,
		Src:  image.White,
		Face: a.face,
		Dot:  fixed.P(i*a.cellW, a.ascent),
	}
	d.DrawString(string(r))

	a.runes = append(a.runes, r)
	a.indices[r] = i
	a.dirty = true
	return i
}

func (a *FontAtlas) grow(capacity int) {
	img := image.NewRGBA(image.Rect(0, 0, capacity*a.cellW, a.cellH))
	if a.img != nil {
		draw.Draw(img, a.img.Bounds(), a.img, image.Point{}, draw.Src)
	}
	a.img = img
	a.capacity = capacity
	a.dirty = true
}

// CellSize returns the cell size in logical pixels.
func (a *FontAtlas) CellSize() (w, h float32) {
	return float32(float64(a.cellW) / a.scale), float32(float64(a.cellH) / a.scale)
}

// PixelCellSize returns the cell size in device pixels.
func (a *FontAtlas) PixelCellSize() (w, h int) {
	return a.cellW, a.cellH
}

// Scale returns the device pixel ratio the atlas was rasterized at.
func (a *FontAtlas) Scale() float64 {
	return a.scale
}

// Image returns the atlas texture. Glyphs are white with coverage in alpha.
func (a *FontAtlas) Image() *image.RGBA {
	return a.img
}

// Len returns the number of rasterized glyphs.
func (a *FontAtlas) Len() int {
	return len(a.runes)
}

// Dirty reports whether glyphs were added since the last MarkClean.
func (a *FontAtlas) Dirty() bool {
	return a.dirty
}

func (a *FontAtlas) MarkClean() {
	a.dirty = false
}

// LogicalResolution returns the texture size divided by the scale factor,
// floored.
func LogicalResolution(img *image.RGBA, scale float64) (w, h float32) {
	b := img.Bounds()
	return float32(math.Floor(float64(b.Dx()) / scale)), float32(math.Floor(float64(b.Dy()) / scale))
}

// Close releases the font face.
func (a *FontAtlas) Close() error {
	return a.face.Close()
}
