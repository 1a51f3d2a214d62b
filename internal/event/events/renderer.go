package events

import "github.com/dshills/cellgl/internal/event/topic"

const (
	// TopicRendererAtlasColor is published after the color atlas was rebuilt
	// for a new theme.
	TopicRendererAtlasColor topic.Topic = "renderer:atlas:color"

	// TopicRendererGridResized is published when the cell grid changes shape.
	TopicRendererGridResized topic.Topic = "renderer:grid:resized"
)

// AtlasUpdated describes a rebuilt atlas texture.
type AtlasUpdated struct {
	// Width and Height are the texture size in pixels.
	Width  int
	Height int

	// Entries is the number of registered highlights.
	Entries int
}

// GridResized carries the new grid dimensions in cells.
type GridResized struct {
	Rows int
	Cols int
}
