package gpu

import (
	"fmt"
	"image"
)

// fakeDevice records every call instead of talking to a GPU.
type fakeDevice struct {
	next    uint32
	current ProgramID

	compileErr map[string]error // keyed by fragment source

	calls    []string
	uniforms map[ProgramID]map[int32][2]float32
	ints     map[ProgramID]map[int32]int32
	buffers  map[BufferID][]float32
	dynamic  map[BufferID]bool
	attribs  []AttribLayout
	textures map[uint32]*image.RGBA
	draws    []fakeDraw
	viewport [4]int32
	blend    bool
	clears   int
	deleted  int
}

type fakeDraw struct {
	program   ProgramID
	first     int32
	count     int32
	instances int32
	blend     bool
}

var fakeLocations = map[string]int32{
	VarQuadVertex:           locQuadVertex,
	VarCellPosition:         locCellPosition,
	VarHlid:                 locHlid,
	VarCharIndex:            locCharIndex,
	VarCanvasResolution:     10,
	VarFontAtlasResolution:  11,
	VarColorAtlasResolution: 12,
	VarCellSize:             13,
	VarFontAtlasTexture:     14,
	VarColorAtlasTexture:    15,
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		compileErr: make(map[string]error),
		uniforms:   make(map[ProgramID]map[int32][2]float32),
		ints:       make(map[ProgramID]map[int32]int32),
		buffers:    make(map[BufferID][]float32),
		dynamic:    make(map[BufferID]bool),
		textures:   make(map[uint32]*image.RGBA),
	}
}

func (d *fakeDevice) handle() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) CompileProgram(vertex, fragment string) (ProgramID, error) {
	if err, ok := d.compileErr[fragment]; ok {
		return 0, err
	}
	id := ProgramID(d.handle())
	d.uniforms[id] = make(map[int32][2]float32)
	d.ints[id] = make(map[int32]int32)
	d.record("compile %d", id)
	return id, nil
}

func (d *fakeDevice) UseProgram(p ProgramID)    { d.current = p }
func (d *fakeDevice) DeleteProgram(p ProgramID) { d.deleted++ }

func (d *fakeDevice) AttribLocation(p ProgramID, name string) int32 {
	if loc, ok := fakeLocations[name]; ok && loc < 10 {
		return loc
	}
	return -1
}

func (d *fakeDevice) UniformLocation(p ProgramID, name string) int32 {
	if loc, ok := fakeLocations[name]; ok && loc >= 10 {
		return loc
	}
	return -1
}

func (d *fakeDevice) CreateVertexArray() ArrayID    { return ArrayID(d.handle()) }
func (d *fakeDevice) BindVertexArray(a ArrayID)     {}
func (d *fakeDevice) DeleteVertexArray(a ArrayID)   { d.deleted++ }
func (d *fakeDevice) CreateBuffer() BufferID        { return BufferID(d.handle()) }
func (d *fakeDevice) DeleteBuffer(b BufferID)       { d.deleted++ }
func (d *fakeDevice) CreateTexture() TextureID      { return TextureID(d.handle()) }
func (d *fakeDevice) DeleteTexture(t TextureID)     { d.deleted++ }
func (d *fakeDevice) ClearColor(r, g, b, a float32) {}

func (d *fakeDevice) BufferData(b BufferID, data []float32, dynamic bool) {
	d.buffers[b] = append([]float32(nil), data...)
	d.dynamic[b] = dynamic
	d.record("buffer %d len=%d", b, len(data))
}

func (d *fakeDevice) VertexAttrib(b BufferID, l AttribLayout) {
	d.attribs = append(d.attribs, l)
}

func (d *fakeDevice) UploadTexture(unit uint32, t TextureID, img *image.RGBA) {
	d.textures[unit] = img
	d.record("texture unit=%d", unit)
}

func (d *fakeDevice) Uniform1i(location int32, v int32) {
	if location < 0 {
		return
	}
	d.ints[d.current][location] = v
}

func (d *fakeDevice) Uniform2f(location int32, x, y float32) {
	if location < 0 {
		return
	}
	d.uniforms[d.current][location] = [2]float32{x, y}
}

func (d *fakeDevice) Viewport(x, y, width, height int32) {
	d.viewport = [4]int32{x, y, width, height}
}

func (d *fakeDevice) Clear()                { d.clears++ }
func (d *fakeDevice) SetBlend(enabled bool) { d.blend = enabled }

func (d *fakeDevice) DrawArraysInstanced(first, count, instances int32) {
	d.draws = append(d.draws, fakeDraw{
		program:   d.current,
		first:     first,
		count:     count,
		instances: instances,
		blend:     d.blend,
	})
}

func (d *fakeDevice) uniform(p ProgramID, name string) [2]float32 {
	return d.uniforms[p][fakeLocations[name]]
}

func (d *fakeDevice) attribAt(loc int32) (AttribLayout, bool) {
	for _, a := range d.attribs {
		if a.Location == loc {
			return a, true
		}
	}
	return AttribLayout{}, false
}
