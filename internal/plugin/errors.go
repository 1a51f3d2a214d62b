package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrNilBus is returned by NewHost.
	ErrNilBus = errors.New("plugin: nil event bus")

	ErrHostClosed = errors.New("plugin: host is closed")
)

// ScriptError wraps a failure of one startup script.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
