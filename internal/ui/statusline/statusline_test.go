package statusline

import (
	"strings"
	"testing"

	"github.com/dshills/cellgl/internal/renderer/backend"
)

func TestFormatPosition(t *testing.T) {
	tests := []struct {
		first, visible, total int
		want                  string
	}{
		{0, 10, 0, "empty"},
		{0, 10, 5, "1-5/5 All"},
		{0, 10, 100, "1-10/100 Top"},
		{90, 10, 100, "91-100/100 Bot"},
		{40, 10, 100, "41-50/100 50%"},
	}
	for _, tt := range tests {
		s := New()
		s.SetPosition(tt.first, tt.visible, tt.total)
		if got := s.formatPosition(); got != tt.want {
			t.Errorf("formatPosition(%d, %d, %d) = %q, want %q", tt.first, tt.visible, tt.total, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	b := backend.NewNullBackend(40, 3)
	s := New()
	s.SetFilename("main.go")
	s.SetPosition(0, 2, 10)
	s.Render(b, 2)

	row := b.Row(2)
	if !strings.HasPrefix(row, " main.go") {
		t.Errorf("row = %q, want file name on the left", row)
	}
	if !strings.HasSuffix(strings.TrimRight(row, " "), "1-2/10 Top") {
		t.Errorf("row = %q, want position on the right", row)
	}
	if got := b.GetCell(0, 2).Style; !got.Equals(s.style) {
		t.Errorf("bar style = %+v", got)
	}
}

func TestMessageReplacesBar(t *testing.T) {
	b := backend.NewNullBackend(20, 1)
	s := New()
	s.SetFilename("main.go")
	s.SetMessage("saved", MessageInfo)
	s.Render(b, 0)

	if got := strings.TrimRight(b.Row(0), " "); got != "saved" {
		t.Errorf("row = %q", got)
	}

	s.ClearMessage()
	if s.Message() != "" {
		t.Error("message not cleared")
	}
	s.Render(b, 0)
	if !strings.Contains(b.Row(0), "main.go") {
		t.Errorf("row after clear = %q", b.Row(0))
	}
}
