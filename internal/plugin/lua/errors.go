package lua

import (
	"errors"
	"fmt"
)

var (
	ErrStateClosed = errors.New("lua state is closed")

	// ErrTimeout is returned when a script runs past its deadline.
	ErrTimeout = errors.New("lua execution timeout")
)

// ScriptError is a compile or runtime error in a script.
type ScriptError struct {
	// Name is the file path or chunk name.
	Name string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("lua %s: %v", e.Name, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
