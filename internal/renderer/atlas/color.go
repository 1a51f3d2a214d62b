package atlas

import (
	"image"
	"image/color"

	"github.com/dshills/cellgl/internal/renderer/core"
)

// Rows of the color atlas texture.
const (
	RowBackground = 0
	RowForeground = 1
)

// DefaultHighlight is the highlight id of the default style.
const DefaultHighlight = 0

// ColorAtlas maps styles to highlight ids. Column i of the texture holds
// the background (row 0) and foreground (row 1) of highlight i.
type ColorAtlas struct {
	fg, bg core.Color

	styles []core.Style
	ids    map[core.Style]int

	img   *image.RGBA
	dirty bool
}

// NewColorAtlas creates an atlas whose default colors are fg and bg.
func NewColorAtlas(fg, bg core.Color) *ColorAtlas {
	a := &ColorAtlas{
		fg:  fg,
		bg:  bg,
		ids: make(map[core.Style]int),
	}
	a.Register(core.DefaultStyle())
	return a
}

// Register returns the highlight id for style, allocating one if needed.
func (a *ColorAtlas) Register(style core.Style) int {
	if id, ok := a.ids[style]; ok {
		return id
	}
	id := len(a.styles)
	a.styles = append(a.styles, style)
	a.ids[style] = id
	a.dirty = true
	return id
}

// SetDefaults changes the colors used for default fg/bg. Every highlight
// is re-resolved on the next Image call.
func (a *ColorAtlas) SetDefaults(fg, bg core.Color) {
	if fg.Equals(a.fg) && bg.Equals(a.bg) {
		return
	}
	a.fg, a.bg = fg, bg
	a.dirty = true
}

// Defaults returns the default foreground and background.
func (a *ColorAtlas) Defaults() (fg, bg core.Color) {
	return a.fg, a.bg
}

// Reset drops every highlight except the default.
func (a *ColorAtlas) Reset() {
	a.styles = a.styles[:0]
	a.ids = make(map[core.Style]int)
	a.Register(core.DefaultStyle())
}

// Len returns the number of highlight ids.
func (a *ColorAtlas) Len() int {
	return len(a.styles)
}

// Colors returns the resolved foreground and background of id.
func (a *ColorAtlas) Colors(id int) (fg, bg core.Color) {
	if id < 0 || id >= len(a.styles) {
		id = DefaultHighlight
	}
	return a.styles[id].Resolve(a.fg, a.bg)
}

// Image returns the atlas texture, rebuilding it when dirty.
func (a *ColorAtlas) Image() *image.RGBA {
	if a.img != nil && !a.dirty && a.img.Bounds().Dx() == len(a.styles) {
		return a.img
	}

	img := image.NewRGBA(image.Rect(0, 0, len(a.styles), 2))
	for id := range a.styles {
		fg, bg := a.Colors(id)
		img.SetRGBA(id, RowBackground, rgba(bg))
		img.SetRGBA(id, RowForeground, rgba(fg))
	}
	a.img = img
	return img
}

func rgba(c core.Color) color.RGBA {
	v := c.RGBA()
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
}

// Dirty reports whether the texture changed since the last MarkClean.
func (a *ColorAtlas) Dirty() bool {
	return a.dirty
}

func (a *ColorAtlas) MarkClean() {
	a.dirty = false
}
