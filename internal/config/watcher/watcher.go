// Package watcher reports changes to configuration files for live reload.
//
// Files are watched through their parent directory so that editors which
// save by writing a temporary file and renaming it over the original are
// still seen. Bursts of events for one file are coalesced and delivered
// once the file has been quiet for the debounce interval.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is a debounced change to a watched file.
type Event struct {
	// Path is absolute.
	Path string
	Op   Operation
	Time time.Time
}

// Operation is the kind of change.
type Operation int

const (
	OpWrite Operation = iota
	OpCreate
	OpRemove
	OpRename
)

func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called from the watcher goroutine.
type Handler func(event Event)

// Watcher delivers debounced change events for a set of files.
type Watcher struct {
	mu       sync.RWMutex
	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int // watched directory -> files in it
	handlers []Handler
	onError  func(error)
	running  bool

	debounce  time.Duration
	pendingMu sync.Mutex
	pending   map[string]Event
	now       func() time.Time

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before its event fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives errors reported by the OS watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]Event),
		now:      time.Now,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds path. The file does not need to exist yet, but its directory
// does.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Unwatch removes path.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	return w.fsw.Remove(dir)
}

// SetFiles makes paths the exact watch set, e.g. after includes change.
func (w *Watcher) SetFiles(paths []string) error {
	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		keep[abs] = true
	}
	for _, p := range w.WatchedFiles() {
		if !keep[p] {
			if err := w.Unwatch(p); err != nil {
				return err
			}
		}
	}
	for p := range keep {
		if err := w.Watch(p); err != nil {
			return err
		}
	}
	return nil
}

// WatchedFiles returns the absolute paths being watched.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for p := range w.files {
		files = append(files, p)
	}
	return files
}

// OnChange registers a handler.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins delivering events. It is a no-op when already running.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.wg.Add(2)
	go w.processLoop()
	go w.debounceLoop()
}

// Stop ends delivery and releases the OS watcher. A stopped watcher cannot
// be restarted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	select {
	case <-w.closeCh:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.closeCh)
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.mu.RLock()
			fn := w.onError
			w.mu.RUnlock()
			if fn != nil {
				fn(err)
			}
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.RLock()
	watched := w.files[abs]
	w.mu.RUnlock()
	if watched {
		w.queueEvent(Event{Path: abs, Op: op, Time: w.now()})
	}
}

// convertOp picks the most significant operation; chmod alone is ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// queueEvent coalesces with any pending event for the same file: remove
// wins over everything, create survives later writes, and the time is
// always the latest.
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	existing, ok := w.pending[event.Path]
	if ok {
		switch {
		case existing.Op == OpRemove && event.Op != OpCreate:
			event.Op = OpRemove
		case existing.Op == OpCreate && event.Op == OpWrite:
			event.Op = OpCreate
		}
	}
	w.pending[event.Path] = event
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.closeCh:
			return
		case <-ticker.C:
			w.flush()
		}
	}
}

// flush emits every pending event that has been quiet for the debounce
// interval.
func (w *Watcher) flush() {
	w.pendingMu.Lock()
	stable := w.now().Add(-w.debounce)
	var ready []Event
	for path, ev := range w.pending {
		if !ev.Time.After(stable) {
			ready = append(ready, ev)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for _, ev := range ready {
		w.emit(ev)
	}
}

func (w *Watcher) emit(event Event) {
	w.mu.RLock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, h := range handlers {
		w.safeCall(h, event)
	}
}

// safeCall keeps the watcher alive when a handler panics.
func (w *Watcher) safeCall(h Handler, event Event) {
	defer func() {
		_ = recover()
	}()
	h(event)
}
