package gpu

import "image"

// Handle types returned by a Device. Zero is never a valid handle.
type (
	ProgramID uint32
	BufferID  uint32
	TextureID uint32
	ArrayID   uint32
)

// AttribLayout describes one vertex attribute sourced from a buffer.
type AttribLayout struct {
	Location int32
	Size     int32 // components per vertex
	Stride   int32 // bytes
	Offset   int   // bytes
	Divisor  uint32
}

// Device is the part of the graphics API the glyph renderer uses.
type Device interface {
	// CompileProgram compiles and links a vertex/fragment pair. Failures are
	// returned as *ShaderError.
	CompileProgram(vertex, fragment string) (ProgramID, error)
	UseProgram(p ProgramID)
	DeleteProgram(p ProgramID)

	// AttribLocation and UniformLocation return -1 for unknown names.
	AttribLocation(p ProgramID, name string) int32
	UniformLocation(p ProgramID, name string) int32

	CreateVertexArray() ArrayID
	BindVertexArray(a ArrayID)
	DeleteVertexArray(a ArrayID)

	CreateBuffer() BufferID
	DeleteBuffer(b BufferID)
	// BufferData replaces the contents of b. Dynamic buffers are rewritten
	// every frame.
	BufferData(b BufferID, data []float32, dynamic bool)
	// VertexAttrib binds attribute l of the current vertex array to b.
	VertexAttrib(b BufferID, l AttribLayout)

	CreateTexture() TextureID
	DeleteTexture(t TextureID)
	// UploadTexture binds t to the texture unit and replaces its contents
	// with img. Sampling uses nearest filtering and clamps to edge.
	UploadTexture(unit uint32, t TextureID, img *image.RGBA)

	Uniform1i(location int32, v int32)
	Uniform2f(location int32, x, y float32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()
	// SetBlend toggles premultiplied alpha blending.
	SetBlend(enabled bool)

	DrawArraysInstanced(first, count, instances int32)
}
