package main

import (
	"fmt"
	"os"

	"github.com/dshills/cellgl/internal/config"
	"github.com/dshills/cellgl/internal/renderer/atlas"
	"github.com/dshills/cellgl/internal/renderer/backend"
	"github.com/dshills/cellgl/internal/renderer/gpu"
	"github.com/dshills/cellgl/internal/renderer/gpu/gldevice"
	"github.com/dshills/cellgl/internal/window"
)

// gpuBackend bundles the GPU backend with what it was built from.
type gpuBackend struct {
	*backend.GPU

	font     *atlas.FontAtlas
	colors   *atlas.ColorAtlas
	renderer *gpu.GlyphRenderer
}

// newGPUBackend opens a window sized to the configured grid and sets up
// the glyph renderer for it.
func newGPUBackend(cfg *config.Config) (*gpuBackend, error) {
	fc := cfg.Font()
	grid := cfg.Grid()
	theme := cfg.Theme()

	var data []byte
	if fc.Path != "" {
		var err error
		if data, err = os.ReadFile(fc.Path); err != nil {
			return nil, fmt.Errorf("font: %w", err)
		}
	}

	// Measure at scale 1 to size the window in logical pixels.
	probe, err := atlas.NewFontAtlas(atlas.FontOptions{Data: data, Size: fc.Size, Scale: 1})
	if err != nil {
		return nil, fmt.Errorf("font: %w", err)
	}
	cw, ch := probe.CellSize()
	_ = probe.Close()

	win, err := window.New(window.Options{
		Title:  "cellgl",
		Width:  int(cw * float32(grid.Cols)),
		Height: int(ch * float32(grid.Rows)),
	})
	if err != nil {
		return nil, err
	}

	scale := win.ContentScale()
	if fc.Scale > 0 {
		scale = fc.Scale
	}
	font, err := atlas.NewFontAtlas(atlas.FontOptions{Data: data, Size: fc.Size, Scale: scale})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("font: %w", err)
	}
	colors := atlas.NewColorAtlas(theme.Foreground, theme.Background)

	dev, err := gldevice.New()
	if err != nil {
		font.Close()
		win.Close()
		return nil, err
	}
	cw, ch = font.CellSize()
	renderer, err := gpu.New(dev, gpu.Options{
		FontAtlas:   font.Image(),
		ColorAtlas:  colors.Image(),
		CellSize:    gpu.Size{W: cw, H: ch},
		Scale:       scale,
		Backgrounds: cfg.GPU().Backgrounds,
	})
	if err != nil {
		font.Close()
		win.Close()
		return nil, err
	}
	font.MarkClean()
	colors.MarkClean()

	return &gpuBackend{
		GPU:      backend.NewGPU(win, renderer, font, colors),
		font:     font,
		colors:   colors,
		renderer: renderer,
	}, nil
}

// Shutdown releases GL objects and the font face while the context is
// still current, then closes the window.
func (g *gpuBackend) Shutdown() {
	g.renderer.Close()
	_ = g.font.Close()
	g.GPU.Shutdown()
}
