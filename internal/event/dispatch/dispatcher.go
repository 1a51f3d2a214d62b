package dispatch

import (
	"context"
	"time"
)

// Handler mirrors event.Handler to avoid an import cycle.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// Dispatcher runs a handler for an event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event any, handler Handler) Result
}

// Result is the outcome of one handler execution.
type Result struct {
	// Success is true if the handler returned nil without panicking.
	Success bool

	// Error is the error returned by the handler, if any.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the recovered value when Panicked is true.
	PanicValue any

	// PanicStack is the stack captured at the panic.
	PanicStack []byte

	// Duration is how long the handler ran.
	Duration time.Duration

	// Skipped is true if the handler never ran because the context was done.
	Skipped bool
}

// IsSuccess reports a clean execution.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Error == nil
}

// IsError reports a returned error (not a panic).
func (r Result) IsError() bool {
	return r.Error != nil && !r.Panicked
}

// IsPanic reports a recovered panic.
func (r Result) IsPanic() bool {
	return r.Panicked
}

// PanicHandler receives the event, the recovered value and the stack.
type PanicHandler func(event any, panicValue any, stack []byte)

func defaultPanicHandler(any, any, []byte) {}
