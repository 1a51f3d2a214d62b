package notification

import (
	"sync"
	"time"
)

// Store holds the current notification list. It belongs to the UI
// goroutine; the mutex only guards readers such as tests and the renderer's
// snapshot.
type Store struct {
	mu        sync.RWMutex
	list      []Notification
	added     []time.Time
	listeners map[int]func([]Notification)
	nextID    int

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		listeners: make(map[int]func([]Notification)),
		now:       time.Now,
	}
}

// Notify appends n and returns its index.
func (s *Store) Notify(n Notification) int {
	s.mu.Lock()
	s.list = Notify(s.list, n)
	s.added = append(s.added, s.now())
	ix := len(s.list) - 1
	s.mu.Unlock()

	s.changed()
	return ix
}

// Dismiss removes the entry at ix. It reports whether anything was removed.
func (s *Store) Dismiss(ix int) bool {
	s.mu.Lock()
	if ix < 0 || ix >= len(s.list) {
		s.mu.Unlock()
		return false
	}
	s.list = Dismiss(s.list, ix)
	s.added = append(s.added[:ix:ix], s.added[ix+1:]...)
	s.mu.Unlock()

	s.changed()
	return true
}

// DismissLast removes the newest entry.
func (s *Store) DismissLast() bool {
	return s.Dismiss(s.Len() - 1)
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.list) == 0 {
		s.mu.Unlock()
		return
	}
	s.list = nil
	s.added = nil
	s.mu.Unlock()

	s.changed()
}

// Expire removes every entry older than the timeout of its kind and
// returns how many were removed. A timeout of zero or less keeps entries of
// that kind until they are dismissed.
func (s *Store) Expire(now time.Time, timeout func(Kind) time.Duration) int {
	s.mu.Lock()
	removed := 0
	for ix := len(s.list) - 1; ix >= 0; ix-- {
		ttl := timeout(s.list[ix].Kind)
		if ttl <= 0 || now.Sub(s.added[ix]) < ttl {
			continue
		}
		s.list = Dismiss(s.list, ix)
		s.added = append(s.added[:ix:ix], s.added[ix+1:]...)
		removed++
	}
	s.mu.Unlock()

	if removed > 0 {
		s.changed()
	}
	return removed
}

// Notifications returns a copy of the list in display order.
func (s *Store) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.list...)
}

// At returns the entry at ix.
func (s *Store) At(ix int) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ix < 0 || ix >= len(s.list) {
		return Notification{}, false
	}
	return s.list[ix], true
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// OnChange registers fn to run after every change with the new list. The
// returned function removes the listener.
func (s *Store) OnChange(fn func([]Notification)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) changed() {
	s.mu.RLock()
	list := append([]Notification(nil), s.list...)
	fns := make([]func([]Notification), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(list)
	}
}
