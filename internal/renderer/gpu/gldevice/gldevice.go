// Package gldevice implements gpu.Device on OpenGL 3.3 core through go-gl.
//
// New must be called with the window's GL context current, and the device
// must only be used from that goroutine.
package gldevice

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/dshills/cellgl/internal/renderer/gpu"
)

// Device is an OpenGL gpu.Device.
type Device struct {
	version string
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL function pointers for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	return &Device{version: gl.GoStr(gl.GetString(gl.VERSION))}, nil
}

// Version returns the GL_VERSION string of the context.
func (d *Device) Version() string {
	return d.version
}

func (d *Device) CompileProgram(vertex, fragment string) (gpu.ProgramID, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertex)
	if err != nil {
		return 0, &gpu.ShaderError{Stage: gpu.StageVertex, Log: err.Error()}
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(gl.FRAGMENT_SHADER, fragment)
	if err != nil {
		return 0, &gpu.ShaderError{Stage: gpu.StageFragment, Log: err.Error()}
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &gpu.ShaderError{Stage: gpu.StageLink, Log: strings.TrimRight(log, "\x00")}
	}
	return gpu.ProgramID(program), nil
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *Device) UseProgram(p gpu.ProgramID) {
	gl.UseProgram(uint32(p))
}

func (d *Device) DeleteProgram(p gpu.ProgramID) {
	gl.DeleteProgram(uint32(p))
}

func (d *Device) AttribLocation(p gpu.ProgramID, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) UniformLocation(p gpu.ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) CreateVertexArray() gpu.ArrayID {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return gpu.ArrayID(vao)
}

func (d *Device) BindVertexArray(a gpu.ArrayID) {
	gl.BindVertexArray(uint32(a))
}

func (d *Device) DeleteVertexArray(a gpu.ArrayID) {
	vao := uint32(a)
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) CreateBuffer() gpu.BufferID {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	return gpu.BufferID(vbo)
}

func (d *Device) DeleteBuffer(b gpu.BufferID) {
	vbo := uint32(b)
	gl.DeleteBuffers(1, &vbo)
}

func (d *Device) BufferData(b gpu.BufferID, data []float32, dynamic bool) {
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), usage)
}

func (d *Device) VertexAttrib(b gpu.BufferID, l gpu.AttribLayout) {
	if l.Location < 0 {
		return
	}
	loc := uint32(l.Location)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, l.Size, gl.FLOAT, false, l.Stride, gl.PtrOffset(l.Offset))
	gl.VertexAttribDivisor(loc, l.Divisor)
}

func (d *Device) CreateTexture() gpu.TextureID {
	var tex uint32
	gl.GenTextures(1, &tex)
	return gpu.TextureID(tex)
}

func (d *Device) DeleteTexture(t gpu.TextureID) {
	tex := uint32(t)
	gl.DeleteTextures(1, &tex)
}

func (d *Device) UploadTexture(unit uint32, t gpu.TextureID, img *image.RGBA) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	b := img.Bounds()
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

func (d *Device) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	gl.Uniform2f(location, x, y)
}

func (d *Device) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) SetBlend(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
		return
	}
	gl.Disable(gl.BLEND)
}

func (d *Device) DrawArraysInstanced(first, count, instances int32) {
	gl.DrawArraysInstanced(gl.TRIANGLES, first, count, instances)
}
