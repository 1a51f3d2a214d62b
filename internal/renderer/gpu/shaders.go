package gpu

// Attribute locations fixed by the shaders. Both programs share one vertex
// array, so the locations must agree.
const (
	locQuadVertex   = 0
	locCellPosition = 1
	locHlid         = 2
	locCharIndex    = 3
)

const vertexShader = `#version 330 core
layout(location = 0) in vec2 quadVertex;
layout(location = 1) in vec2 cellPosition;
layout(location = 2) in float hlid;
layout(location = 3) in float charIndex;

uniform vec2 canvasResolution;
uniform vec2 fontAtlasResolution;
uniform vec2 colorAtlasResolution;
uniform vec2 cellSize;

out vec2 o_glyphPosition;
out vec2 o_colorPosition;
out vec2 o_backgroundPosition;

void main() {
	vec2 vertexPosition = cellPosition * cellSize + quadVertex;
	vec2 posFloat = vertexPosition / canvasResolution;
	gl_Position = vec4(posFloat.x * 2.0 - 1.0, posFloat.y * -2.0 + 1.0, 0.0, 1.0);

	vec2 glyphVertex = vec2(charIndex, 0.0) * cellSize + quadVertex;
	o_glyphPosition = glyphVertex / fontAtlasResolution;

	o_colorPosition = vec2(hlid + 0.5, 1.5) / colorAtlasResolution;
	o_backgroundPosition = vec2(hlid + 0.5, 0.5) / colorAtlasResolution;
}
`

// Glyph coverage is premultiplied white, so the product is a premultiplied
// foreground color.
const foregroundShader = `#version 330 core
precision highp float;

in vec2 o_glyphPosition;
in vec2 o_colorPosition;

uniform sampler2D fontAtlasTextureId;
uniform sampler2D colorAtlasTextureId;

out vec4 outColor;

void main() {
	vec4 glyphColor = texture(fontAtlasTextureId, o_glyphPosition);
	vec4 highlightColor = texture(colorAtlasTextureId, o_colorPosition);
	outColor = glyphColor * highlightColor;
}
`

const backgroundShader = `#version 330 core
precision highp float;

in vec2 o_backgroundPosition;

uniform sampler2D colorAtlasTextureId;

out vec4 outColor;

void main() {
	outColor = texture(colorAtlasTextureId, o_backgroundPosition);
}
`

func foregroundVars() Vars {
	return Vars{
		VarQuadVertex:           Attribute,
		VarCellPosition:         Attribute,
		VarHlid:                 Attribute,
		VarCharIndex:            Attribute,
		VarCanvasResolution:     Uniform,
		VarFontAtlasResolution:  Uniform,
		VarColorAtlasResolution: Uniform,
		VarCellSize:             Uniform,
		VarFontAtlasTexture:     Uniform,
		VarColorAtlasTexture:    Uniform,
	}
}

func backgroundVars() Vars {
	return Vars{
		VarQuadVertex:           Attribute,
		VarCellPosition:         Attribute,
		VarHlid:                 Attribute,
		VarCanvasResolution:     Uniform,
		VarColorAtlasResolution: Uniform,
		VarCellSize:             Uniform,
		VarColorAtlasTexture:    Uniform,
	}
}
