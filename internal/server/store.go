package server

import (
	"sync"

	"mediascope/internal/pipeline"
)

// Store holds completed analyses for the lifetime of the process. Nothing is
// persisted; restarting the server clears all analyses. The mutex exists
// because HTTP handlers run concurrently, not because analyses are shared
// between pipelines.
type Store struct {
	mu       sync.RWMutex
	analyses map[string]*pipeline.Analysis
	order    []string // newest first
}

// NewStore creates an empty analysis store.
func NewStore() *Store {
	return &Store{analyses: make(map[string]*pipeline.Analysis)}
}

// Put registers a completed analysis.
func (s *Store) Put(a *pipeline.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.analyses[a.ID]; !ok {
		s.order = append([]string{a.ID}, s.order...)
	}
	s.analyses[a.ID] = a
}

// Get returns the analysis with the given ID, or nil.
func (s *Store) Get(id string) *pipeline.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyses[id]
}

// All returns all analyses, newest first.
func (s *Store) All() []*pipeline.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*pipeline.Analysis, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.analyses[id])
	}
	return out
}
