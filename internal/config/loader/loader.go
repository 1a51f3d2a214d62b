// Package loader reads configuration sources into nested maps: TOML files
// (with @include) and CELLGL_ environment variables.
package loader

import "os"

// Loader reads one configuration source. A missing source yields nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the part of the OS the TOML loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
