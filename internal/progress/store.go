// =============================================================================
// Order Tally - Fulfillment Checklist Store
// =============================================================================
//
// The checklist records how many units of each pivot cell have been packed.
// It is owned by the report layer: the import pipeline never reads or writes
// it, and imports never clear it.
//
// KEYS:
//   "{rowKey}_{size}", e.g. "Classic Tee - Navy_LARGE"
//
// Keys from earlier imports stay in the store until Reset. A stale key is
// harmless: reports only look up keys of the cells they render.
//
// IMPLEMENTATIONS:
//   - MemoryStore: in-process map, used by tests
//   - SQLiteStore: persistent, one row per key (sqlite.go)
//
// =============================================================================

package progress

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"
)

// Store is a key -> checked-count store.
type Store interface {
	// Get returns the count for key (0 when absent).
	Get(key string) (int, error)

	// Set stores count for key. Negative counts are rejected.
	Set(key string, count int) error

	// Advance increments the count for key and returns the new value. Once
	// the count would pass target it wraps to 0.
	Advance(key string, target int) (int, error)

	// All returns every stored count.
	All() (map[string]int, error)

	// Reset removes every key.
	Reset() error

	// Close releases the store.
	Close() error
}

// Key builds the checklist key for a pivot cell.
func Key(rowKey, size string) string {
	return rowKey + "_" + size
}

// next is the click-to-increment rule shared by every Store.
func next(current, target int) int {
	n := current + 1
	if n > target {
		return 0
	}
	return n
}

// SortedKeys returns the keys of counts in lexical order.
func SortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

func (s *MemoryStore) Get(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}

func (s *MemoryStore) Set(key string, count int) error {
	if count < 0 {
		return eris.Errorf("count for %q must not be negative (got %d)", key, count)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key] = count
	return nil
}

func (s *MemoryStore) Advance(key string, target int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := next(s.counts[key], target)
	s.counts[key] = n
	return n, nil
}

func (s *MemoryStore) All() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[string]int)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
