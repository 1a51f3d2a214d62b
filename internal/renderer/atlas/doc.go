// Package atlas produces the two textures the glyph renderer samples: a
// font atlas holding one rasterized glyph per cell in a single row, and a
// color atlas holding one column per highlight id.
package atlas
