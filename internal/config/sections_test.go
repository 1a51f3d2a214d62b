package config

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/renderer/core"
)

func TestSections_Defaults(t *testing.T) {
	c := load(t, WithPath(""))

	font := c.Font()
	if font.Size != 14 || font.Path != "" || font.Scale != 0 {
		t.Errorf("Font() = %+v", font)
	}
	if g := c.Grid(); g.Rows != 30 || g.Cols != 100 {
		t.Errorf("Grid() = %+v", g)
	}
	if !c.GPU().Backgrounds {
		t.Error("GPU().Backgrounds = false")
	}
	if l := c.Logging(); l.Level != "info" || l.File != "" {
		t.Errorf("Logging() = %+v", l)
	}
	if s := c.Scripts(); !s.Enabled || len(s.Paths) != 0 {
		t.Errorf("Scripts() = %+v", s)
	}

	n := c.Notifications()
	if n.Width != 40 || n.Margin != 1 {
		t.Errorf("Notifications() = %+v", n)
	}
	if _, ok := n.Timeouts[notification.KindError]; ok {
		t.Error("errors should not time out by default")
	}
	if n.Timeouts[notification.KindInfo] != 5*time.Second {
		t.Errorf("info timeout = %v", n.Timeouts[notification.KindInfo])
	}

	theme := c.Theme()
	if theme.Background.Hex() != "#1e1e1e" {
		t.Errorf("background = %s", theme.Background.Hex())
	}
	if theme.Notifications[notification.KindWarning].Hex() != "#d19a2e" {
		t.Errorf("warning accent = %s", theme.Notifications[notification.KindWarning].Hex())
	}
	nr := theme.Highlight("gutterNr")
	if !nr.Attributes.Has(core.AttrBold) || nr.Foreground.Hex() != "#c6c6c6" {
		t.Errorf("gutterNr = %+v", nr)
	}
	if !theme.Highlight("nope").IsDefault() {
		t.Error("unknown highlight should be the default style")
	}
	if errs := c.ConfigErrors(); errs != nil {
		t.Errorf("ConfigErrors() = %v", errs)
	}
}

func TestSections_UserValues(t *testing.T) {
	fsys := memFS{"/config.toml": `
[font]
size = 18
path = "/fonts/x.ttf"
scale = 2

[theme]
foreground = "#abc"

[theme.highlights]
gutter = { fg = "#111111", bg = "#222222", italic = true }

[theme.notifications]
info = "#000080"

[notifications]
width = 30

[notifications.timeouts]
info = 0
error = "10s"

[scripts]
paths = ["a.lua", "b.lua"]
`}
	c := load(t, WithPath("/config.toml"), WithFileSystem(fsys))

	if f := c.Font(); f.Size != 18 || f.Path != "/fonts/x.ttf" || f.Scale != 2 {
		t.Errorf("Font() = %+v", f)
	}
	theme := c.Theme()
	if theme.Foreground.Hex() != "#aabbcc" {
		t.Errorf("foreground = %s", theme.Foreground.Hex())
	}
	g := theme.Highlight("gutter")
	if g.Foreground.Hex() != "#111111" || g.Background.Hex() != "#222222" || !g.Attributes.Has(core.AttrItalic) {
		t.Errorf("gutter = %+v", g)
	}
	if theme.Notifications[notification.KindInfo].Hex() != "#000080" {
		t.Errorf("info accent = %s", theme.Notifications[notification.KindInfo].Hex())
	}

	n := c.Notifications()
	if n.Width != 30 {
		t.Errorf("width = %d", n.Width)
	}
	if _, ok := n.Timeouts[notification.KindInfo]; ok {
		t.Error("info timeout of 0 should be sticky")
	}
	if n.Timeouts[notification.KindError] != 10*time.Second {
		t.Errorf("error timeout = %v", n.Timeouts[notification.KindError])
	}
	if s := c.Scripts(); len(s.Paths) != 2 || s.Paths[0] != "a.lua" {
		t.Errorf("Scripts() = %+v", s)
	}
}

func TestSections_BadValuesFallBack(t *testing.T) {
	fsys := memFS{"/config.toml": `
[font]
size = "big"

[theme]
foreground = "not-a-color"

[theme.highlights]
gutter = { fg = "#111111", sparkle = true }
`}
	c := load(t, WithPath("/config.toml"), WithFileSystem(fsys))

	if c.Font().Size != 14 {
		t.Errorf("font size = %v, want default", c.Font().Size)
	}
	theme := c.Theme()
	if theme.Foreground.Hex() != "#d4d4d4" {
		t.Errorf("foreground = %s, want default", theme.Foreground.Hex())
	}
	if _, ok := theme.Highlights["gutter"]; ok {
		t.Error("invalid highlight should be skipped")
	}

	errs := c.ConfigErrors()
	for _, path := range []string{"font.size", "theme.foreground", "theme.highlights.gutter"} {
		if !errors.Is(errs[path], ErrTypeMismatch) {
			t.Errorf("ConfigErrors()[%s] = %v, want type mismatch", path, errs[path])
		}
	}
}
