// Package recent keeps the most-recent-first list of searched cities in a
// key-value store.
package recent

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Key is the storage key holding the JSON-encoded list
const Key = "recentSearches"

// DefaultLimit bounds the list when no limit is configured
const DefaultLimit = 10

// Store is a string key-value store partitioned by scope (one scope per
// browser origin or client).
type Store interface {
	Get(scope, key string) (string, bool, error)
	Set(scope, key, value string) error
	Remove(scope, key string) error
}

// List is the recent-search list of one scope
type List struct {
	store Store
	scope string
	limit int
}

// New creates a list over store. limit <= 0 selects DefaultLimit.
func New(store Store, scope string, limit int) *List {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &List{store: store, scope: scope, limit: limit}
}

// Load returns the stored names; a missing key is an empty list
func (l *List) Load() ([]string, error) {
	raw, ok, err := l.store.Get(l.scope, Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent searches: %w", err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("failed to decode recent searches: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Push moves name to the front. Entries equal to name under case folding
// are dropped, so the newest casing wins. Blank names are ignored.
func (l *List) Push(name string) ([]string, error) {
	name = strings.TrimSpace(name)
	names, err := l.Load()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return names, nil
	}

	fold := cases.Fold()
	key := fold.String(name)

	out := make([]string, 0, len(names)+1)
	out = append(out, name)
	for _, existing := range names {
		if fold.String(existing) == key {
			continue
		}
		out = append(out, existing)
	}
	if len(out) > l.limit {
		out = out[:l.limit]
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	if err := l.store.Set(l.scope, Key, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save recent searches: %w", err)
	}
	return out, nil
}

// Clear removes the stored list
func (l *List) Clear() error {
	if err := l.store.Remove(l.scope, Key); err != nil {
		return fmt.Errorf("failed to clear recent searches: %w", err)
	}
	return nil
}

// MemoryStore is a Store that lives only as long as the process
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func memoryKey(scope, key string) string {
	return scope + "\x00" + key
}

// Get returns the value under scope/key
func (m *MemoryStore) Get(scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[memoryKey(scope, key)]
	return v, ok, nil
}

// Set stores value under scope/key
func (m *MemoryStore) Set(scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[memoryKey(scope, key)] = value
	return nil
}

// Remove deletes scope/key
func (m *MemoryStore) Remove(scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memoryKey(scope, key))
	return nil
}

var _ Store = (*MemoryStore)(nil)
