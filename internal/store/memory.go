package store

import (
	"context"
	"sync"
)

// MemoryCollection is an in-process collection for tests and ephemeral
// deployments. ReplaceErr, when set, makes the next Replace fail so
// tests can exercise persistence failure paths.
type MemoryCollection[T any] struct {
	mu      sync.RWMutex
	records map[string]T

	ReplaceErr error
}

// NewMemoryCollection creates an empty in-memory collection.
func NewMemoryCollection[T any]() *MemoryCollection[T] {
	return &MemoryCollection[T]{records: map[string]T{}}
}

// Load returns a copy of the collection.
func (c *MemoryCollection[T]) Load(ctx context.Context) (map[string]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]T, len(c.records))
	for id, rec := range c.records {
		out[id] = rec
	}
	return out, nil
}

// Replace swaps in a copy of the given records.
func (c *MemoryCollection[T]) Replace(ctx context.Context, records map[string]T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ReplaceErr != nil {
		return c.ReplaceErr
	}

	out := make(map[string]T, len(records))
	for id, rec := range records {
		out[id] = rec
	}
	c.records = out
	return nil
}
