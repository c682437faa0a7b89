package storage

import (
	"slices"
	"sync"
)

// Memory keeps collections in process memory.
type Memory struct {
	mu   sync.Mutex
	data map[Collection][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[Collection][]byte)}
}

func (m *Memory) Get(c Collection) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[c]
	return slices.Clone(d), ok, nil
}

func (m *Memory) Put(c Collection, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[c] = slices.Clone(data)
	return nil
}

func (m *Memory) Close() error { return nil }
