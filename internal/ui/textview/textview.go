// Package textview draws a read-only document with a line-number gutter
// and keyboard/mouse scrolling.
package textview

import (
	"os"
	"strconv"
	"strings"

	"github.com/dshills/cellgl/internal/renderer/backend"
	"github.com/dshills/cellgl/internal/renderer/core"
)

// TabWidth is the number of columns a tab expands to.
const TabWidth = 4

// MinGutterDigits keeps short files from shifting text as they grow.
const MinGutterDigits = 3

// Styles of the three regions.
type Styles struct {
	// Gutter is the blank column between numbers and text.
	Gutter core.Style
	Number core.Style
	Text   core.Style
}

// View is a scrollable list of lines.
type View struct {
	path   string
	lines  []string
	top    int
	styles Styles

	// height of the last Draw
	height int
}

// New creates a view of lines.
func New(lines []string) *View {
	return &View{
		lines: expandTabs(lines),
		styles: Styles{
			Gutter: core.DefaultStyle(),
			Number: core.DefaultStyle(),
			Text:   core.DefaultStyle(),
		},
	}
}

// Load reads path. An empty path gives an empty view.
func Load(path string) (*View, error) {
	if path == "" {
		return New(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := New(SplitLines(string(data)))
	v.path = path
	return v, nil
}

// SplitLines splits on \n, dropping \r and the empty line after a final
// newline.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func expandTabs(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.ReplaceAll(l, "\t", strings.Repeat(" ", TabWidth))
	}
	return out
}

func (v *View) Path() string {
	return v.path
}

func (v *View) LineCount() int {
	return len(v.lines)
}

// Top returns the first visible line, 0-based.
func (v *View) Top() int {
	return v.top
}

// Height returns the number of text rows of the last Draw.
func (v *View) Height() int {
	return v.height
}

func (v *View) SetStyles(s Styles) {
	v.styles = s
}

// GutterWidth is the number column plus one separator column.
func (v *View) GutterWidth() int {
	digits := len(strconv.Itoa(len(v.lines)))
	return max(digits, MinGutterDigits) + 1
}

// ScrollTo clamps line so the last page stays full.
func (v *View) ScrollTo(line int) {
	maxTop := max(len(v.lines)-v.height, 0)
	v.top = min(max(line, 0), maxTop)
}

// Scroll moves the view by delta lines.
func (v *View) Scroll(delta int) {
	v.ScrollTo(v.top + delta)
}

// Draw fills rect with the gutter and text.
func (v *View) Draw(b backend.Backend, rect core.ScreenRect) {
	v.height = rect.Height()
	v.ScrollTo(v.top)

	gw := v.GutterWidth()
	textWidth := rect.Width() - gw
	b.Fill(rect, core.NewStyledCell(' ', v.styles.Text))

	for row := 0; row < v.height; row++ {
		y := rect.Top + row
		b.Fill(core.RectFromSize(y, rect.Left, 1, gw), core.NewStyledCell(' ', v.styles.Gutter))

		ix := v.top + row
		if ix >= len(v.lines) {
			continue
		}
		num := strconv.Itoa(ix + 1)
		backend.DrawString(b, rect.Left+gw-1-len(num), y, num, v.styles.Number)
		if textWidth > 0 {
			backend.DrawString(b, rect.Left+gw, y, core.Truncate(v.lines[ix], textWidth), v.styles.Text)
		}
	}
}

// HandleEvent scrolls for arrows, paging keys and the mouse wheel. It
// reports whether the event was consumed.
func (v *View) HandleEvent(ev backend.Event) bool {
	page := max(v.height-1, 1)
	before := v.top

	switch ev.Type {
	case backend.EventKey:
		switch ev.Key {
		case backend.KeyUp:
			v.Scroll(-1)
		case backend.KeyDown:
			v.Scroll(1)
		case backend.KeyPageUp:
			v.Scroll(-page)
		case backend.KeyPageDown:
			v.Scroll(page)
		case backend.KeyHome:
			v.ScrollTo(0)
		case backend.KeyEnd:
			v.ScrollTo(len(v.lines))
		default:
			return false
		}
	case backend.EventMouse:
		switch ev.MouseButton {
		case backend.MouseWheelUp:
			v.Scroll(-3)
		case backend.MouseWheelDown:
			v.Scroll(3)
		default:
			return false
		}
	default:
		return false
	}
	return v.top != before || ev.Type == backend.EventKey
}
