package formatting

import (
	"errors"
	"slices"
	"sync"
)

// ErrBatchInProgress is returned when a batch is begun on a store that
// already has one open.
var ErrBatchInProgress = errors.New("formatting batch already in progress")

// Store is the host's live, mutable formatting table.
type Store interface {
	// Attributes returns the live entry of a classification, or false when the
	// host has not registered it yet.
	Attributes(name string) (Attributes, bool)
	SetAttributes(name string, a Attributes) error
	// BeginBatch opens a batch; writes until EndBatch commit as one update.
	BeginBatch() error
	EndBatch()
}

// Registrar is implemented by stores that accept new classifications.
type Registrar interface {
	// Register adds an entry unless one exists and reports whether it did.
	Register(name string, a Attributes) bool
}

// MemoryStore is an in-process Store. It keeps write and commit counters so
// callers can observe how much an apply changed.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Attributes
	order   []string
	inBatch bool
	dirty   bool
	writes  int
	commits int
}

var (
	_ Store     = (*MemoryStore)(nil)
	_ Registrar = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Attributes)}
}

// Register adds an entry unless one exists.
func (s *MemoryStore) Register(name string, a Attributes) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; ok {
		return false
	}
	s.entries[name] = a
	s.order = append(s.order, name)
	return true
}

// Attributes implements Store.
func (s *MemoryStore) Attributes(name string) (Attributes, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.entries[name]
	return a, ok
}

// SetAttributes implements Store. Writes outside a batch commit immediately.
func (s *MemoryStore) SetAttributes(name string, a Attributes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; !ok {
		return errors.New("classification not registered: " + name)
	}
	s.entries[name] = a
	s.writes++
	if s.inBatch {
		s.dirty = true
	} else {
		s.commits++
	}
	return nil
}

// BeginBatch implements Store.
func (s *MemoryStore) BeginBatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inBatch {
		return ErrBatchInProgress
	}
	s.inBatch = true
	return nil
}

// EndBatch implements Store.
func (s *MemoryStore) EndBatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inBatch && s.dirty {
		s.commits++
	}
	s.inBatch, s.dirty = false, false
}

// InBatch reports whether a batch is open.
func (s *MemoryStore) InBatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inBatch
}

// Writes returns the number of SetAttributes calls so far.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Commits returns the number of visual updates the host would have made.
func (s *MemoryStore) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Names returns registered names in registration order.
func (s *MemoryStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}
