package topic

import "sync"

// Trie stores topic patterns and finds every pattern matching a concrete
// topic. It is safe for concurrent use.
type Trie struct {
	mu   sync.RWMutex
	root *trieNode
}

type trieNode struct {
	children map[string]*trieNode
	patterns []Topic
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

func (n *trieNode) isEmpty() bool {
	return len(n.children) == 0 && len(n.patterns) == 0
}

// NewTrie creates an empty pattern trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

// Insert adds a pattern. It returns false if the pattern was already present.
func (t *Trie) Insert(pattern Topic) bool {
	if pattern == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.root == nil {
		t.root = newTrieNode()
	}

	node := t.root
	for _, seg := range pattern.Segments() {
		child := node.children[seg]
		if child == nil {
			child = newTrieNode()
			node.children[seg] = child
		}
		node = child
	}

	for _, p := range node.patterns {
		if p == pattern {
			return false
		}
	}
	node.patterns = append(node.patterns, pattern)
	return true
}

type pathEntry struct {
	node *trieNode
	key  string
}

// Delete removes a pattern and prunes nodes left empty.
// It returns false if the pattern was not present.
func (t *Trie) Delete(pattern Topic) bool {
	if pattern == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.root == nil {
		return false
	}

	segments := pattern.Segments()
	path := make([]pathEntry, 0, len(segments)+1)
	path = append(path, pathEntry{node: t.root})

	node := t.root
	for _, seg := range segments {
		child := node.children[seg]
		if child == nil {
			return false
		}
		path = append(path, pathEntry{node: child, key: seg})
		node = child
	}

	found := false
	for i, p := range node.patterns {
		if p == pattern {
			node.patterns = append(node.patterns[:i], node.patterns[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}

	for i := len(path) - 1; i > 0; i-- {
		if !path[i].node.isEmpty() {
			break
		}
		delete(path[i-1].node.children, path[i].key)
	}
	return true
}

// Contains reports whether the exact pattern is stored.
func (t *Trie) Contains(pattern Topic) bool {
	if pattern == "" {
		return false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.root == nil {
		return false
	}

	node := t.root
	for _, seg := range pattern.Segments() {
		node = node.children[seg]
		if node == nil {
			return false
		}
	}
	for _, p := range node.patterns {
		if p == pattern {
			return true
		}
	}
	return false
}

type matchState struct {
	seen    map[Topic]struct{}
	matches []Topic
	visited map[visitKey]struct{}
}

type visitKey struct {
	node  *trieNode
	depth int
}

// Match returns the unique patterns matching eventTopic, which must not
// itself contain wildcards.
func (t *Trie) Match(eventTopic Topic) []Topic {
	if eventTopic == "" {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.root == nil {
		return nil
	}

	state := &matchState{
		seen:    make(map[Topic]struct{}),
		visited: make(map[visitKey]struct{}),
	}
	t.match(t.root, eventTopic.Segments(), 0, state)
	return state.matches
}

// match walks the trie; visited memoizes (node, depth) so "**" chains stay
// linear.
func (t *Trie) match(node *trieNode, segments []string, depth int, state *matchState) {
	if node == nil {
		return
	}

	key := visitKey{node: node, depth: depth}
	if _, ok := state.visited[key]; ok {
		return
	}
	state.visited[key] = struct{}{}

	if depth == len(segments) {
		state.add(node.patterns)
		if child := node.children[WildcardMulti]; child != nil {
			t.match(child, segments, depth, state)
		}
		return
	}

	if child := node.children[segments[depth]]; child != nil {
		t.match(child, segments, depth+1, state)
	}
	if child := node.children[WildcardSingle]; child != nil {
		t.match(child, segments, depth+1, state)
	}
	if child := node.children[WildcardMulti]; child != nil {
		for i := depth; i <= len(segments); i++ {
			t.match(child, segments, i, state)
		}
	}
}

func (s *matchState) add(patterns []Topic) {
	for _, p := range patterns {
		if _, ok := s.seen[p]; ok {
			continue
		}
		s.seen[p] = struct{}{}
		s.matches = append(s.matches, p)
	}
}

// Size returns the number of stored patterns.
func (t *Trie) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return countPatterns(t.root)
}

func countPatterns(node *trieNode) int {
	if node == nil {
		return 0
	}
	n := len(node.patterns)
	for _, child := range node.children {
		n += countPatterns(child)
	}
	return n
}

// Clear removes all patterns.
func (t *Trie) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = newTrieNode()
}
