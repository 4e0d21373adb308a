package session

import (
	"slices"
	"sync"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/size"
)

// Store holds fetched size histories by package name.
//
// Entries are only ever added: an existing name is never overwritten and
// nothing is removed, so a name that is present is never requested again.
// A Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	histories map[string]size.History
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{histories: make(map[string]size.History)}
}

// Has reports whether name has been stored.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	_, ok := s.histories[name]
	s.mu.RUnlock()
	return ok
}

// Get returns the history stored for name.
func (s *Store) Get(name string) (size.History, bool) {
	s.mu.RLock()
	h, ok := s.histories[name]
	s.mu.RUnlock()
	return h, ok
}

// Add stores h under name unless the name is already present.
// It reports whether the store changed.
func (s *Store) Add(name string, h size.History) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.histories[name]; ok {
		return false
	}
	s.histories[name] = h
	return true
}

// Len returns the number of stored names.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.histories)
}

// Names returns the stored names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.histories))
	for name := range s.histories {
		names = append(names, name)
	}
	s.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Resolve returns the resolved size of name. A name that is missing or has
// no usable version is unresolved. Its signature matches rank.Resolver.
func (s *Store) Resolve(name string) (size.Resolved, bool) {
	h, ok := s.Get(name)
	if !ok {
		return size.Resolved{}, false
	}
	return size.Resolve(h)
}
