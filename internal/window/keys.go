package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/dshills/cellgl/internal/renderer/backend"
)

var glfwKeys = map[glfw.Key]backend.Key{
	glfw.KeyEscape:    backend.KeyEscape,
	glfw.KeyEnter:     backend.KeyEnter,
	glfw.KeyKPEnter:   backend.KeyEnter,
	glfw.KeyTab:       backend.KeyTab,
	glfw.KeyBackspace: backend.KeyBackspace,
	glfw.KeyDelete:    backend.KeyDelete,
	glfw.KeyHome:      backend.KeyHome,
	glfw.KeyEnd:       backend.KeyEnd,
	glfw.KeyPageUp:    backend.KeyPageUp,
	glfw.KeyPageDown:  backend.KeyPageDown,
	glfw.KeyUp:        backend.KeyUp,
	glfw.KeyDown:      backend.KeyDown,
	glfw.KeyLeft:      backend.KeyLeft,
	glfw.KeyRight:     backend.KeyRight,
}

// Control chords. Printable keys without Ctrl arrive through the char
// callback instead.
var ctrlKeys = map[glfw.Key]backend.Key{
	glfw.KeyC: backend.KeyCtrlC,
	glfw.KeyL: backend.KeyCtrlL,
	glfw.KeyX: backend.KeyCtrlX,
}

func translateKey(key glfw.Key, mods glfw.ModifierKey) (backend.Key, bool) {
	if mods&glfw.ModControl != 0 {
		if k, ok := ctrlKeys[key]; ok {
			return k, true
		}
	}
	k, ok := glfwKeys[key]
	return k, ok
}

func translateMods(mods glfw.ModifierKey) backend.ModMask {
	var m backend.ModMask
	if mods&glfw.ModShift != 0 {
		m |= backend.ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= backend.ModCtrl
	}
	if mods&glfw.ModAlt != 0 {
		m |= backend.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= backend.ModMeta
	}
	return m
}
