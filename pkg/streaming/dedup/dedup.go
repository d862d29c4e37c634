package dedup

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/emirpasic/gods/sets/hashset"
)

// ErrNotComparable is returned when a key cannot be used as a set member.
var ErrNotComparable = errors.New("key is not comparable")

// KeySet records keys and reports first sightings.
type KeySet interface {
	// Add records key and reports whether it was absent before the call.
	Add(ctx context.Context, key interface{}) (bool, error)
}

// MemorySet is an in-process KeySet. It is safe for concurrent use.
type MemorySet struct {
	mu  sync.Mutex
	set *hashset.Set
}

// NewMemorySet creates an empty MemorySet.
func NewMemorySet() *MemorySet {
	return &MemorySet{set: hashset.New()}
}

// Add implements KeySet.
func (m *MemorySet) Add(ctx context.Context, key interface{}) (bool, error) {
	if err := checkComparable(key); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.set.Contains(key) {
		return false, nil
	}
	m.set.Add(key)
	return true, nil
}

// Len returns the number of keys recorded so far.
func (m *MemorySet) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Size()
}

// Reset forgets every recorded key.
func (m *MemorySet) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.Clear()
}

func checkComparable(key interface{}) error {
	if key == nil {
		return nil
	}
	if !reflect.ValueOf(key).Comparable() {
		return fmt.Errorf("%w: %T", ErrNotComparable, key)
	}
	return nil
}
