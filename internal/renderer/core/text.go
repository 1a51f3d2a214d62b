package core

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Wrap breaks s into lines no wider than width columns. It prefers to break
// at spaces and falls back to breaking inside a word that alone exceeds the
// width. Existing newlines are kept.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapLine(para, width)...)
	}
	return lines
}

func wrapLine(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range words {
		w := uniseg.StringWidth(word)

		if curWidth > 0 && curWidth+1+w <= width {
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += 1 + w
			continue
		}
		if curWidth > 0 {
			flush()
		}
		if w <= width {
			cur.WriteString(word)
			curWidth = w
			continue
		}

		for _, part := range splitWidth(word, width) {
			if curWidth > 0 {
				flush()
			}
			cur.WriteString(part)
			curWidth = uniseg.StringWidth(part)
		}
	}
	if curWidth > 0 {
		flush()
	}
	return lines
}

// splitWidth cuts s into chunks of at most width columns on grapheme
// boundaries.
func splitWidth(s string, width int) []string {
	var parts []string
	var cur strings.Builder
	curWidth := 0
	state := -1

	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if curWidth+w > width && curWidth > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteString(cluster)
		curWidth += w
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// Truncate cuts s to at most width columns, ending with "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var b strings.Builder
	used := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		if used+w > width-1 {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	b.WriteString("…")
	return b.String()
}
