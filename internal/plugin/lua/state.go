package lua

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds one DoString or DoFile call.
const DefaultTimeout = 5 * time.Second

// State is a sandboxed Lua interpreter. gopher-lua is single threaded; the
// mutex serializes Go callers.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	print   func(string)
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout bounds each execution. Zero disables the bound.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithPrint routes Lua's print to fn instead of dropping it.
func WithPrint(fn func(string)) StateOption {
	return func(s *State) {
		s.print = fn
	}
}

func NewState(opts ...StateOption) (*State, error) {
	s := &State{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	if err := openSafeLibraries(s.L); err != nil {
		s.L.Close()
		return nil, err
	}
	installSandbox(s.L, s.print)
	return s, nil
}

func openSafeLibraries(L *lua.LState) error {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("open %q: %w", lib.name, err)
		}
	}
	return nil
}

// sandboxRemoved are base functions that reach the file system or compile
// arbitrary chunks.
var sandboxRemoved = []string{
	"dofile", "loadfile", "load", "loadstring",
	"require", "module", "getfenv", "setfenv",
	"collectgarbage", "newproxy", "_printregs",
}

func installSandbox(L *lua.LState, printFn func(string)) {
	for _, name := range sandboxRemoved {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		if printFn == nil {
			return 0
		}
		top := L.GetTop()
		parts := make([]string, top)
		for i := 1; i <= top; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		printFn(strings.Join(parts, "\t"))
		return 0
	}))
}

// DoString runs code as a chunk called name.
func (s *State) DoString(ctx context.Context, name, code string) error {
	return s.run(ctx, name, []byte(code))
}

// DoFile reads and runs a script.
func (s *State) DoFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.run(ctx, path, data)
}

func (s *State) run(ctx context.Context, name string, code []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = &ScriptError{Name: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	fn, err := s.L.Load(bytes.NewReader(code), name)
	if err != nil {
		return &ScriptError{Name: name, Err: err}
	}
	s.L.Push(fn)
	if err := s.L.PCall(0, lua.MultRet, nil); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &ScriptError{Name: name, Err: ErrTimeout}
		}
		return &ScriptError{Name: name, Err: err}
	}
	return nil
}

// RegisterModule installs a global table of Go functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	s.L.SetGlobal(name, s.L.SetFuncs(s.L.NewTable(), funcs))
	return nil
}

// GetGlobal returns LNil for a closed state.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close is idempotent.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
