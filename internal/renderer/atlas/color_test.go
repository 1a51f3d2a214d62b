package atlas

import (
	"testing"

	"github.com/dshills/cellgl/internal/renderer/core"
)

func TestColorAtlas_DefaultHighlight(t *testing.T) {
	a := NewColorAtlas(core.ColorWhite, core.ColorBlack)

	if got := a.Register(core.DefaultStyle()); got != DefaultHighlight {
		t.Errorf("default style id = %d, want %d", got, DefaultHighlight)
	}
	fg, bg := a.Colors(DefaultHighlight)
	if !fg.Equals(core.ColorWhite) || !bg.Equals(core.ColorBlack) {
		t.Errorf("default colors = %v/%v", fg, bg)
	}
}

func TestColorAtlas_RegisterDedupes(t *testing.T) {
	a := NewColorAtlas(core.ColorWhite, core.ColorBlack)
	a.MarkClean()

	red := core.NewStyle(core.ColorRed)
	id := a.Register(red)
	if id != 1 {
		t.Errorf("first new id = %d, want 1", id)
	}
	if !a.Dirty() {
		t.Error("new highlight should dirty the atlas")
	}

	a.MarkClean()
	if again := a.Register(red); again != id {
		t.Errorf("Register not stable: %d then %d", id, again)
	}
	if a.Dirty() {
		t.Error("known highlight should not dirty the atlas")
	}
}

func TestColorAtlas_Image(t *testing.T) {
	a := NewColorAtlas(core.ColorWhite, core.ColorBlack)
	id := a.Register(core.NewStyle(core.ColorRed).WithBackground(core.ColorBlue))

	img := a.Image()
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", b)
	}

	check := func(x, y int, want core.Color) {
		t.Helper()
		got := img.RGBAAt(x, y)
		if got.R != want.R || got.G != want.G || got.B != want.B || got.A != 255 {
			t.Errorf("texel (%d,%d) = %v, want %v", x, y, got, want)
		}
	}
	check(DefaultHighlight, RowForeground, core.ColorWhite)
	check(DefaultHighlight, RowBackground, core.ColorBlack)
	check(id, RowForeground, core.ColorRed)
	check(id, RowBackground, core.ColorBlue)
}

func TestColorAtlas_SetDefaults(t *testing.T) {
	a := NewColorAtlas(core.ColorWhite, core.ColorBlack)
	a.Image()
	a.MarkClean()

	a.SetDefaults(core.ColorWhite, core.ColorBlack)
	if a.Dirty() {
		t.Error("unchanged defaults should not dirty the atlas")
	}

	a.SetDefaults(core.ColorYellow, core.ColorGray)
	if !a.Dirty() {
		t.Error("new defaults should dirty the atlas")
	}
	if got := a.Image().RGBAAt(0, RowForeground); got.R != 255 || got.G != 255 || got.B != 0 {
		t.Errorf("default fg texel = %v", got)
	}
}

func TestColorAtlas_Reset(t *testing.T) {
	a := NewColorAtlas(core.ColorWhite, core.ColorBlack)
	a.Register(core.NewStyle(core.ColorRed))
	a.Reset()

	if a.Len() != 1 {
		t.Errorf("Len() after Reset = %d, want 1", a.Len())
	}
	if fg, _ := a.Colors(42); !fg.Equals(core.ColorWhite) {
		t.Errorf("unknown id should fall back to default, got %v", fg)
	}
}
