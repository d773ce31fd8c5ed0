package render

import "sync"

// Screen holds what a surface currently displays. Showing a tree replaces
// the previous one entirely.
type Screen struct {
	mu      sync.RWMutex
	result  *Node
	history *Node
	loading bool
}

// Snapshot is a copy of the screen state at one point in time.
type Snapshot struct {
	Result  *Node
	History *Node
	Loading bool
}

func NewScreen() *Screen {
	return &Screen{}
}

func (s *Screen) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *Screen) ShowResult(tree *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = tree
}

func (s *Screen) ShowHistory(tree *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = tree
}

func (s *Screen) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Result:  s.result,
		History: s.history,
		Loading: s.loading,
	}
}
