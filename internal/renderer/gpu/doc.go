// Package gpu draws a grid of glyph cells with one instanced draw call.
//
// Each visible cell is a glyph cell record of four float32 values
// (col, row, hlid, charIndex). The vertex shader places a cell-sized quad at
// col*cellWidth, row*cellHeight, looks up the glyph in the font atlas by char
// index and the colors in the color atlas by highlight id.
//
// Two textures are bound for the lifetime of the renderer:
//
//	unit 0: font atlas, one row of cells, white glyphs with coverage in alpha
//	unit 1: color atlas, width = highlight count, row 0 background, row 1 foreground
//
// All geometry is expressed in logical pixels. The font atlas texture is
// rasterized at the device scale factor, so its logical resolution is the
// pixel size divided by the scale, floored.
//
// The package talks to the graphics API through the Device interface.
// gldevice implements it with OpenGL 3.3 core; tests use a recording fake.
// A Device and the GlyphRenderer built on it must only be used from the
// goroutine that owns the GL context.
package gpu
