package notification

import "errors"

var (
	// ErrUnknownKind is returned by ParseKind.
	ErrUnknownKind = errors.New("notification: unknown kind")

	// ErrNilSink is returned by Subscribe when no sink is given.
	ErrNilSink = errors.New("notification: nil sink")
)
