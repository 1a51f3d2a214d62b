package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDevice is returned when New is called without a device.
	ErrNilDevice = errors.New("gpu: nil device")

	// ErrMissingAtlas is returned when an atlas image is nil or empty.
	ErrMissingAtlas = errors.New("gpu: missing atlas image")

	// ErrInvalidCellSize is returned for a non-positive cell size.
	ErrInvalidCellSize = errors.New("gpu: cell size must be positive")

	// ErrClosed is returned by operations on a released renderer.
	ErrClosed = errors.New("gpu: renderer closed")
)

// Shader stages reported by ShaderError.
const (
	StageVertex   = "vertex"
	StageFragment = "fragment"
	StageLink     = "link"
)

// ShaderError reports a failed shader compile or program link.
type ShaderError struct {
	Program string
	Stage   string
	Log     string
}

func (e *ShaderError) Error() string {
	if e.Program == "" {
		return fmt.Sprintf("gpu: %s shader: %s", e.Stage, e.Log)
	}
	return fmt.Sprintf("gpu: %s program: %s shader: %s", e.Program, e.Stage, e.Log)
}
