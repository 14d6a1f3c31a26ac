package vault

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Record
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Record)}
}

func (r *memoryRepository) Get(_ context.Context, depositor string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.storage[depositor]
	if !ok {
		return ZeroRecord(), nil
	}
	return record.Clone(), nil
}

func (r *memoryRepository) Put(_ context.Context, depositor string, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[depositor] = record.Clone()
	return nil
}
