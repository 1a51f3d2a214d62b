package app

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	ErrAlreadyRunning = errors.New("application already running")

	ErrNotRunning = errors.New("application not running")

	// ErrNoBackend is returned by Run before SetBackend.
	ErrNoBackend = errors.New("no backend set")
)

// InitError is a failure to start a component.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// RecoveredPanicError is a panic caught in a UI callback.
type RecoveredPanicError struct {
	Value any
	Stack string
}

func (e *RecoveredPanicError) Error() string {
	return fmt.Sprintf("recovered panic: %v", e.Value)
}
