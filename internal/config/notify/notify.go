// Package notify delivers configuration changes to observers.
package notify

import (
	"sort"
	"strings"
	"sync"
)

// ChangeType is the kind of configuration change.
type ChangeType int

const (
	// ChangeSet is a value added or modified.
	ChangeSet ChangeType = iota

	// ChangeDelete is a value that disappeared.
	ChangeDelete

	// ChangeReload follows the per-path changes of a file reload, or stands
	// alone with Err set when the reload failed.
	ChangeReload
)

func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change is one configuration change.
type Change struct {
	// Path is empty for reloads.
	Path string
	Type ChangeType

	OldValue any
	NewValue any

	// Source is the layer or file the change came from.
	Source string

	// Err is set on a failed reload. The previous configuration stays in
	// effect.
	Err error
}

// Observer is called synchronously from the goroutine that made the change.
type Observer func(change Change)

// Subscription is an observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	path     string // empty for global observers
	observer Observer
}

// Notifier fans changes out to observers in subscription order.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]entry
	nextID    uint64
	closed    bool
}

func New() *Notifier {
	return &Notifier{observers: make(map[uint64]entry)}
}

// Subscribe receives every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.add("", observer)
}

// SubscribePath receives changes at path or below it, plus reloads.
// Subscribing to "theme" sees "theme.foreground".
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	return n.add(path, observer)
}

func (n *Notifier) add(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = entry{path: path, observer: observer}
	return &Subscription{id: id, notifier: n}
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// Notify delivers change. Observers run outside the lock and may
// unsubscribe themselves.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(n.observers))
	for id, e := range n.observers {
		if e.path == "" || change.Type == ChangeReload || matches(e.path, change.Path) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.observers[id].observer
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{Path: path, Type: ChangeSet, OldValue: oldValue, NewValue: newValue, Source: source})
}

func (n *Notifier) NotifyDelete(path string, oldValue any, source string) {
	n.Notify(Change{Path: path, Type: ChangeDelete, OldValue: oldValue, Source: source})
}

func (n *Notifier) NotifyReload(source string, err error) {
	n.Notify(Change{Type: ChangeReload, Source: source, Err: err})
}

// Close drops every observer. Later notifications are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.observers = make(map[uint64]entry)
}

// matches reports whether path is prefix or a parent of changed.
func matches(prefix, changed string) bool {
	return changed == prefix || strings.HasPrefix(changed, prefix+".")
}
