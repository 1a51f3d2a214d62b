// Package core holds the cell, style and geometry types shared by the
// backends, the atlases and the UI widgets.
package core
