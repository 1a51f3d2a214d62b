package notifications

import (
	"github.com/dshills/cellgl/internal/notification"
	"github.com/dshills/cellgl/internal/renderer/core"
)

// CloseButton is drawn at the right end of every header.
const CloseButton = "×"

// Box is the placement of one notification.
type Box struct {
	// Index is the notification's position in the list.
	Index int

	Rect  core.ScreenRect
	Close core.ScreenPos

	Title string
	Body  []string
}

// Layout places list in a screen of the given size. Boxes are width cells
// wide, margin cells from the top and right edges, one blank row apart.
// Boxes that do not fit entirely are left out.
func Layout(list []notification.Notification, screenW, screenH, width, margin int) []Box {
	width = min(width, screenW-margin)
	if width < minWidth || margin < 0 {
		return nil
	}
	inner := width - 2
	left := screenW - margin - width
	top := margin

	var boxes []Box
	for ix, n := range list {
		body := bodyLines(n.Message, inner)
		height := 1 + len(body)
		if top+height > screenH {
			break
		}

		rect := core.RectFromSize(top, left, height, width)
		boxes = append(boxes, Box{
			Index: ix,
			Rect:  rect,
			Close: core.ScreenPos{Row: top, Col: rect.Right - 2},
			Title: core.Truncate(n.Title, inner-2),
			Body:  body,
		})
		top += height + 1
	}
	return boxes
}

// minWidth fits a one-character title and the close button.
const minWidth = 6

func bodyLines(m notification.Message, width int) []string {
	if m.IsEmpty() {
		return nil
	}
	if !m.IsLines() {
		return core.Wrap(m.Text(), width)
	}
	lines := m.Lines()
	for i, l := range lines {
		lines[i] = core.Truncate(l, width)
	}
	return lines
}

// HitClose returns the index of the notification whose close button is at
// pos.
func HitClose(boxes []Box, pos core.ScreenPos) (int, bool) {
	for _, b := range boxes {
		if b.Close == pos {
			return b.Index, true
		}
	}
	return -1, false
}

// HitBox returns the index of the notification drawn at pos.
func HitBox(boxes []Box, pos core.ScreenPos) (int, bool) {
	for _, b := range boxes {
		if b.Rect.Contains(pos) {
			return b.Index, true
		}
	}
	return -1, false
}
