// Package layer stacks configuration sources by priority. Higher priority
// layers override values from lower ones.
package layer

// Source is where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin holds compiled-in defaults.
	SourceBuiltin Source = iota
	// SourceUser is the TOML file given by -config or the default path.
	SourceUser
	// SourceEnv holds CELLGL_ environment variables.
	SourceEnv
	// SourceArgs holds command-line flag overrides.
	SourceArgs
)

// Priority levels. Gaps leave room for sources added later.
const (
	PriorityBuiltin = 0
	PriorityUser    = 100
	PriorityEnv     = 500
	PriorityArgs    = 600
)

func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	default:
		return "unknown"
	}
}

// Priority returns the merge priority of s.
func (s Source) Priority() int {
	switch s {
	case SourceUser:
		return PriorityUser
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	default:
		return PriorityBuiltin
	}
}

// Layer is one configuration source.
type Layer struct {
	Source Source

	// Path is the file the layer was read from, if any.
	Path string

	Data map[string]any
}

// New creates a layer holding a copy of data.
func New(source Source, path string, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{Source: source, Path: path, Data: Clone(data)}
}

// Name is the source name, used in logs and by WhichLayer.
func (l *Layer) Name() string {
	return l.Source.String()
}

func (l *Layer) Clone() *Layer {
	return &Layer{Source: l.Source, Path: l.Path, Data: Clone(l.Data)}
}
