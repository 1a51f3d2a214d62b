package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/cellgl/internal/config/layer"
)

// IncludeKey lists files merged beneath the file that names them.
const IncludeKey = "@include"

// MaxIncludeDepth bounds nested includes.
const MaxIncludeDepth = 8

var (
	ErrIncludeDepth = errors.New("include depth exceeded")
	ErrIncludeCycle = errors.New("include cycle")
	ErrIncludeType  = errors.New("@include must be a string or an array of strings")
)

// TOMLLoader loads a TOML file and the files it includes.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(OSFS{}, path)
}

func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fsys, path: path}
}

// Path returns the root file.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads the root file with includes resolved. Included files are
// merged first so the including file wins. A missing root file is not an
// error; a missing include is.
func (l *TOMLLoader) Load() (map[string]any, error) {
	cfg, err := l.read(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return l.expand(l.path, cfg, nil)
}

// Files returns the root file followed by every file it includes, in load
// order. The watcher uses this to follow includes.
func (l *TOMLLoader) Files() []string {
	var files []string
	l.collect(l.path, nil, &files)
	return files
}

func (l *TOMLLoader) collect(path string, stack []string, files *[]string) {
	if len(stack) >= MaxIncludeDepth || contains(stack, path) {
		return
	}
	*files = append(*files, path)
	cfg, err := l.read(path)
	if err != nil {
		return
	}
	includes, err := includeList(cfg)
	if err != nil {
		return
	}
	for _, inc := range includes {
		l.collect(resolve(path, inc), append(stack, path), files)
	}
}

func (l *TOMLLoader) load(path string, stack []string) (map[string]any, error) {
	if len(stack) >= MaxIncludeDepth {
		return nil, fmt.Errorf("%s: %w", path, ErrIncludeDepth)
	}
	if contains(stack, path) {
		return nil, fmt.Errorf("%s: %w", path, ErrIncludeCycle)
	}

	cfg, err := l.read(path)
	if err != nil {
		return nil, err
	}
	return l.expand(path, cfg, stack)
}

// expand merges the includes of path beneath cfg.
func (l *TOMLLoader) expand(path string, cfg map[string]any, stack []string) (map[string]any, error) {
	includes, err := includeList(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	delete(cfg, IncludeKey)

	merged := make(map[string]any)
	for _, inc := range includes {
		incPath := resolve(path, inc)
		incCfg, err := l.load(incPath, append(stack, path))
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		merged = layer.DeepMerge(merged, incCfg)
	}
	return layer.DeepMerge(merged, cfg), nil
}

func (l *TOMLLoader) read(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes TOML data. Syntax errors come back as *ParseError.
func Parse(source string, data []byte) (map[string]any, error) {
	cfg := make(map[string]any)
	if err := toml.Unmarshal(data, &cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return cfg, nil
}

func includeList(cfg map[string]any) ([]string, error) {
	switch v := cfg[IncludeKey].(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, ErrIncludeType
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, ErrIncludeType
	}
}

// resolve makes inc relative to the directory of the including file.
func resolve(from, inc string) string {
	if filepath.IsAbs(inc) {
		return inc
	}
	return filepath.Join(filepath.Dir(from), inc)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseError is a TOML syntax error with its position, when known.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	default:
		return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
