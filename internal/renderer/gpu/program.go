package gpu

import (
	"errors"
	"fmt"
)

// VarKind tells whether a program variable is a vertex attribute or a
// uniform.
type VarKind int

const (
	Attribute VarKind = iota
	Uniform
)

func (k VarKind) String() string {
	switch k {
	case Attribute:
		return "attribute"
	case Uniform:
		return "uniform"
	default:
		return fmt.Sprintf("VarKind(%d)", int(k))
	}
}

// Program variable names shared by the shaders and the renderer.
const (
	VarQuadVertex           = "quadVertex"
	VarCellPosition         = "cellPosition"
	VarHlid                 = "hlid"
	VarCharIndex            = "charIndex"
	VarCanvasResolution     = "canvasResolution"
	VarFontAtlasResolution  = "fontAtlasResolution"
	VarColorAtlasResolution = "colorAtlasResolution"
	VarCellSize             = "cellSize"
	VarFontAtlasTexture     = "fontAtlasTextureId"
	VarColorAtlasTexture    = "colorAtlasTextureId"
)

// Vars declares the variables a program exposes.
type Vars map[string]VarKind

// Program is a linked shader program with its variable locations resolved.
type Program struct {
	name string
	dev  Device
	id   ProgramID
	vars Vars
	locs map[string]int32
}

// NewProgram compiles the shaders and resolves every declared variable.
// Variables the driver does not report resolve to -1; setting them is a
// no-op, as in GL.
func NewProgram(dev Device, name string, vars Vars, vertex, fragment string) (*Program, error) {
	id, err := dev.CompileProgram(vertex, fragment)
	if err != nil {
		var se *ShaderError
		if errors.As(err, &se) && se.Program == "" {
			se.Program = name
		}
		return nil, err
	}

	p := &Program{
		name: name,
		dev:  dev,
		id:   id,
		vars: vars,
		locs: make(map[string]int32, len(vars)),
	}
	for v, kind := range vars {
		switch kind {
		case Attribute:
			p.locs[v] = dev.AttribLocation(id, v)
		case Uniform:
			p.locs[v] = dev.UniformLocation(id, v)
		}
	}
	return p, nil
}

// Name returns the program's name.
func (p *Program) Name() string {
	return p.name
}

// ID returns the device handle.
func (p *Program) ID() ProgramID {
	return p.id
}

// Loc returns the location of v, or -1 when v is unknown.
func (p *Program) Loc(v string) int32 {
	if loc, ok := p.locs[v]; ok {
		return loc
	}
	return -1
}

// Kind returns the declared kind of v.
func (p *Program) Kind(v string) (VarKind, bool) {
	k, ok := p.vars[v]
	return k, ok
}

// Use makes p the current program.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// Uniform2f sets a vec2 uniform. p must be current.
func (p *Program) Uniform2f(v string, x, y float32) {
	p.dev.Uniform2f(p.Loc(v), x, y)
}

// Uniform1i sets an int or sampler uniform. p must be current.
func (p *Program) Uniform1i(v string, i int32) {
	p.dev.Uniform1i(p.Loc(v), i)
}

// Delete releases the program.
func (p *Program) Delete() {
	p.dev.DeleteProgram(p.id)
}
