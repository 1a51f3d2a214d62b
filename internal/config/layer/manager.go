package layer

import (
	"sort"
	"sync"
)

// Manager holds at most one layer per source and caches their merge.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer // ascending priority
	merged map[string]any
	dirty  bool
}

func NewManager() *Manager {
	return &Manager{dirty: true}
}

// SetLayer installs l, replacing any layer from the same source.
func (m *Manager) SetLayer(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.layers {
		if existing.Source == l.Source {
			m.layers[i] = l
			m.dirty = true
			return
		}
	}
	m.layers = append(m.layers, l)
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Source.Priority() < m.layers[j].Source.Priority()
	})
	m.dirty = true
}

// RemoveLayer drops the layer from source. It reports whether one existed.
func (m *Manager) RemoveLayer(source Source) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Source == source {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// Layer returns the layer from source, or nil.
func (m *Manager) Layer(source Source) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.layers {
		if l.Source == source {
			return l
		}
	}
	return nil
}

// Layers returns the layers in ascending priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// Merge returns a copy of all layers merged in priority order.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Clone(m.mergedLocked())
}

func (m *Manager) mergedLocked() map[string]any {
	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return m.merged
}

// Get returns the effective value at path.
func (m *Manager) Get(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return GetByPath(m.mergedLocked(), path)
}

// WhichLayer returns the source providing path, searching from the highest
// priority down.
func (m *Manager) WhichLayer(path string) (Source, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if _, ok := GetByPath(m.layers[i].Data, path); ok {
			return m.layers[i].Source, true
		}
	}
	return 0, false
}
