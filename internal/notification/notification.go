package notification

import "strings"

// Message is either a single string or an ordered list of lines.
type Message struct {
	text  string
	lines []string
	multi bool
}

// Text creates a single-string message.
func Text(s string) Message {
	return Message{text: s}
}

// Lines creates a multi-line message. The slice is copied.
func Lines(lines ...string) Message {
	return Message{lines: append([]string{}, lines...), multi: true}
}

// IsLines reports whether m was created from a list of lines.
func (m Message) IsLines() bool {
	return m.multi
}

// Text returns the single string, or the lines joined by newlines.
func (m Message) Text() string {
	if m.multi {
		return strings.Join(m.lines, "\n")
	}
	return m.text
}

// Lines returns the lines of a multi-line message, or the single string as
// one line. The result is a copy.
func (m Message) Lines() []string {
	if m.multi {
		return append([]string{}, m.lines...)
	}
	return []string{m.text}
}

// IsEmpty reports whether the message has no text.
func (m Message) IsEmpty() bool {
	if m.multi {
		return len(m.lines) == 0
	}
	return m.text == ""
}

// Equal reports whether two messages have the same form and content.
func (m Message) Equal(other Message) bool {
	if m.multi != other.multi {
		return false
	}
	if !m.multi {
		return m.text == other.text
	}
	if len(m.lines) != len(other.lines) {
		return false
	}
	for i := range m.lines {
		if m.lines[i] != other.lines[i] {
			return false
		}
	}
	return true
}

func (m Message) String() string {
	return m.Text()
}

// Notification is one entry of the list.
type Notification struct {
	Kind    Kind
	Title   string
	Message Message
}

// Equal compares two notifications by value.
func (n Notification) Equal(other Notification) bool {
	return n.Kind == other.Kind && n.Title == other.Title && n.Message.Equal(other.Message)
}
