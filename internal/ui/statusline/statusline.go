// Package statusline draws the bottom status bar: file name, visible line
// range and a transient message.
package statusline

import (
	"strconv"

	"github.com/dshills/cellgl/internal/renderer/backend"
	"github.com/dshills/cellgl/internal/renderer/core"
)

// MessageType selects the message style.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine renders one row.
type StatusLine struct {
	filename   string
	totalLines int
	firstLine  int // 0-based top visible line
	visible    int

	message     string
	messageType MessageType

	style    core.Style
	msgStyle map[MessageType]core.Style
}

// New creates a status line in reverse video.
func New() *StatusLine {
	return &StatusLine{
		style: core.DefaultStyle().Reverse(),
		msgStyle: map[MessageType]core.Style{
			MessageWarning: core.NewStyle(core.ColorYellow),
			MessageError:   core.NewStyle(core.ColorRed).Bold(),
		},
	}
}

// SetStyle sets the bar style, e.g. from the "status" highlight.
func (s *StatusLine) SetStyle(style core.Style) {
	s.style = style
}

func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetPosition updates the scroll position. first is 0-based.
func (s *StatusLine) SetPosition(first, visible, total int) {
	s.firstLine = first
	s.visible = visible
	s.totalLines = total
}

// SetMessage replaces the bar with msg until ClearMessage.
func (s *StatusLine) SetMessage(msg string, t MessageType) {
	s.message = msg
	s.messageType = t
}

func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

func (s *StatusLine) Message() string {
	return s.message
}

// Render draws the bar on row.
func (s *StatusLine) Render(b backend.Backend, row int) {
	width, _ := b.Size()
	if width <= 0 {
		return
	}
	if s.message != "" {
		s.renderMessage(b, row, width)
		return
	}

	b.Fill(core.RectFromSize(row, 0, 1, width), core.NewStyledCell(' ', s.style))

	pos := s.formatPosition()
	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	room := width - core.StringWidth(pos) - 3
	if room > 0 {
		backend.DrawString(b, 1, row, core.Truncate(name, room), s.style)
	}
	if start := width - core.StringWidth(pos) - 1; start > 0 {
		backend.DrawString(b, start, row, pos, s.style)
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row, width int) {
	style, ok := s.msgStyle[s.messageType]
	if !ok {
		style = core.DefaultStyle()
	}
	b.Fill(core.RectFromSize(row, 0, 1, width), core.NewStyledCell(' ', style))
	backend.DrawString(b, 0, row, core.Truncate(s.message, width), style)
}

// formatPosition returns e.g. "1-30/120 Top".
func (s *StatusLine) formatPosition() string {
	if s.totalLines == 0 {
		return "empty"
	}
	first := s.firstLine + 1
	last := min(s.firstLine+s.visible, s.totalLines)
	result := strconv.Itoa(first) + "-" + strconv.Itoa(last) + "/" + strconv.Itoa(s.totalLines)

	switch {
	case s.visible >= s.totalLines:
		result += " All"
	case s.firstLine == 0:
		result += " Top"
	case last >= s.totalLines:
		result += " Bot"
	default:
		result += " " + strconv.Itoa(last*100/s.totalLines) + "%"
	}
	return result
}
