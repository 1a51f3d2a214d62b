package core

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Cell is one grid position.
type Cell struct {
	// Rune is 0 for the trailing half of a wide character.
	Rune rune

	// Width is 0, 1 or 2 columns.
	Width int

	Style Style
}

// EmptyCell returns a space with the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewCell creates a cell with the default style.
func NewCell(r rune) Cell {
	return NewStyledCell(r, DefaultStyle())
}

// NewStyledCell creates a cell with the given style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// ContinuationCell fills the column after a wide character.
func ContinuationCell() Cell {
	return Cell{Style: DefaultStyle()}
}

// IsContinuation reports whether c is the right half of a wide character.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// IsEmpty reports a blank cell.
func (c Cell) IsEmpty() bool {
	return c.Rune == ' ' || c.Rune == 0
}

func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune && c.Width == other.Width && c.Style.Equals(other.Style)
}

// RuneWidth returns the number of columns r occupies.
func RuneWidth(r rune) int {
	if r == 0 || unicode.IsControl(r) {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// StringWidth returns the number of columns s occupies, counting grapheme
// clusters rather than runes.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// CellsFromString lays s out as cells, one per grapheme cluster plus a
// continuation cell after each wide cluster. Combining marks are dropped;
// a cell holds a single rune.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if width == 0 {
			continue
		}

		r := []rune(cluster)[0]
		cells = append(cells, Cell{Rune: r, Width: width, Style: style})
		for i := 1; i < width; i++ {
			cells = append(cells, ContinuationCell())
		}
	}
	return cells
}

// StringFromCells reverses CellsFromString.
func StringFromCells(cells []Cell) string {
	runes := make([]rune, 0, len(cells))
	for _, c := range cells {
		if !c.IsContinuation() {
			runes = append(runes, c.Rune)
		}
	}
	return string(runes)
}
