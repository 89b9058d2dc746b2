package store

import (
	"context"
	"sync"
)

// MemorySlot is an in-process Slot.
type MemorySlot struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemory returns an empty MemorySlot.
func NewMemory() *MemorySlot {
	return &MemorySlot{entries: map[string]Entry{}}
}

// Get returns the entry stored under key.
func (m *MemorySlot) Get(_ context.Context, key string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[key], nil
}

// Put writes value under key, honouring the expected version.
func (m *MemorySlot) Put(_ context.Context, key, value string, expect int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.entries[key]
	if expect != AnyVersion && cur.Version != expect {
		return 0, ErrVersionConflict
	}
	next := Entry{Value: value, Version: cur.Version + 1}
	m.entries[key] = next
	return next.Version, nil
}

// Close is a no-op.
func (m *MemorySlot) Close() error {
	return nil
}
