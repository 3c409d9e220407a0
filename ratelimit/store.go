package ratelimit

import (
	"sync"
	"time"
)

// Record tracks failed authentication attempts for one identifier.
// LockedUntil is only set once Count has reached the maximum.
type Record struct {
	Count        int        `json:"count"`
	LockedUntil  *time.Time `json:"lockedUntil,omitempty"`
	FirstAttempt time.Time  `json:"firstAttempt"`
}

// Store holds attempt records. The limiter serialises access, so implementations
// only need to be safe for use by a single limiter; a shared store makes lockouts
// visible across server instances.
type Store interface {
	Get(id string) (Record, bool)
	Put(id string, rec Record)
	Delete(id string)
}

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

func (m *MemoryStore) Get(id string) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	return rec, ok
}

func (m *MemoryStore) Put(id string, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = rec
}

func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
}

// Len is the number of tracked identifiers
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
