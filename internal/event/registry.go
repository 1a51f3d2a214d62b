package event

import (
	"sort"
	"sync"

	"github.com/dshills/cellgl/internal/event/topic"
)

// Registry keeps subscriptions indexed by pattern and by ID.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	subs map[topic.Topic][]*subscription
	byID map[string]*subscription
	trie *topic.Trie

	// seq orders subscriptions of equal priority by registration.
	seq uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[topic.Topic][]*subscription),
		byID: make(map[string]*subscription),
		trie: topic.NewTrie(),
	}
}

// Add registers sub under its topic pattern.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	sub.seq = r.seq

	pattern := sub.Topic()
	subs := append(r.subs[pattern], sub)
	sortByPriority(subs)
	r.subs[pattern] = subs
	r.byID[sub.ID()] = sub
	r.trie.Insert(pattern)
}

// Remove unregisters a subscription by ID.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[subID]
	if !ok {
		return false
	}
	r.removeLocked(sub)
	return true
}

func (r *Registry) removeLocked(sub *subscription) {
	pattern := sub.Topic()
	subs := r.subs[pattern]
	for i, s := range subs {
		if s == sub {
			subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}

	if len(subs) == 0 {
		delete(r.subs, pattern)
		r.trie.Delete(pattern)
	} else {
		r.subs[pattern] = subs
	}
	delete(r.byID, sub.ID())
}

// Get returns a subscription by ID.
func (r *Registry) Get(subID string) (*subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.byID[subID]
	return sub, ok
}

// Match returns every subscription whose pattern matches eventTopic, in
// priority order and, within a priority, in registration order.
func (r *Registry) Match(eventTopic topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := r.trie.Match(eventTopic)
	if len(patterns) == 0 {
		return nil
	}

	var all []*subscription
	for _, pattern := range patterns {
		all = append(all, r.subs[pattern]...)
	}
	sortByPriority(all)
	return all
}

// MatchActive is Match without paused or cancelled subscriptions.
func (r *Registry) MatchActive(eventTopic topic.Topic) []*subscription {
	all := r.Match(eventTopic)
	if len(all) == 0 {
		return nil
	}

	active := all[:0]
	for _, sub := range all {
		if sub.IsActive() {
			active = append(active, sub)
		}
	}
	return active
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, sub := range r.byID {
		if sub.IsActive() {
			n++
		}
	}
	return n
}

// Topics returns the registered patterns.
func (r *Registry) Topics() []topic.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topics := make([]topic.Topic, 0, len(r.subs))
	for t := range r.subs {
		topics = append(topics, t)
	}
	return topics
}

// Clear removes all subscriptions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = make(map[topic.Topic][]*subscription)
	r.byID = make(map[string]*subscription)
	r.trie.Clear()
}

// RemoveCancelled drops cancelled subscriptions and returns how many went.
func (r *Registry) RemoveCancelled() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, sub := range r.byID {
		if sub.IsCancelled() {
			r.removeLocked(sub)
			removed++
		}
	}
	return removed
}

func sortByPriority(subs []*subscription) {
	sort.Slice(subs, func(i, j int) bool {
		pi, pj := subs[i].config.Priority, subs[j].config.Priority
		if pi != pj {
			return pi < pj
		}
		return subs[i].seq < subs[j].seq
	})
}
