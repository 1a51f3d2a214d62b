package config

import (
	"errors"
	"fmt"

	"github.com/dshills/cellgl/internal/config/loader"
)

var (
	// ErrSettingNotFound is returned when no layer defines a path.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch matches every *TypeError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrClosed is returned by Reload after Close.
	ErrClosed = errors.New("config closed")
)

// ParseError is a syntax error in a configuration file.
type ParseError = loader.ParseError

// TypeError is a setting whose value has the wrong type.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
