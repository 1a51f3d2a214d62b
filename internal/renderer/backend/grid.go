package backend

import "github.com/dshills/cellgl/internal/renderer/core"

// Grid is an in-memory cell store with a dirty flag. Backends that draw a
// whole frame at once keep their cells here.
type Grid struct {
	width, height int
	cells         []core.Cell
	dirty         bool
}

// NewGrid creates a grid filled with empty cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Resize(width, height)
	return g
}

// Size returns the grid dimensions.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Resize reallocates the grid, keeping the overlapping region.
func (g *Grid) Resize(width, height int) {
	width, height = max(0, width), max(0, height)
	cells := make([]core.Cell, width*height)
	for i := range cells {
		cells[i] = core.EmptyCell()
	}

	for y := 0; y < min(height, g.height); y++ {
		for x := 0; x < min(width, g.width); x++ {
			cells[y*width+x] = g.cells[y*g.width+x]
		}
	}

	g.width, g.height = width, height
	g.cells = cells
	g.dirty = true
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Set stores cell at (x, y). Out-of-range positions are ignored.
func (g *Grid) Set(x, y int, cell core.Cell) {
	if !g.inBounds(x, y) {
		return
	}
	i := y*g.width + x
	if g.cells[i].Equals(cell) {
		return
	}
	g.cells[i] = cell
	g.dirty = true
}

// Get returns the cell at (x, y), or an empty cell out of range.
func (g *Grid) Get(x, y int) core.Cell {
	if !g.inBounds(x, y) {
		return core.EmptyCell()
	}
	return g.cells[y*g.width+x]
}

// Fill sets every cell of rect that lies inside the grid.
func (g *Grid) Fill(rect core.ScreenRect, cell core.Cell) {
	rect = rect.Intersection(core.ScreenRect{Bottom: g.height, Right: g.width})
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			g.Set(x, y, cell)
		}
	}
}

// Clear resets every cell to empty.
func (g *Grid) Clear() {
	g.Fill(core.ScreenRect{Bottom: g.height, Right: g.width}, core.EmptyCell())
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(x, y int, cell core.Cell)) {
	for y := 0; y < g.height; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for x, cell := range row {
			fn(x, y, cell)
		}
	}
}

// Dirty reports whether any cell changed since the last MarkClean.
func (g *Grid) Dirty() bool {
	return g.dirty
}

func (g *Grid) MarkClean() {
	g.dirty = false
}
