package storage

import (
	"context"
	"sync"
)

// Memory is a Storage kept in process memory.
type Memory struct {
	mu      sync.RWMutex
	lastID  int64
	objects map[int64]Object
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[int64]Object)}
}

func (m *Memory) Create(_ context.Context, name string, data []byte) (int64, error) {
	if name == "" {
		return 0, ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	m.objects[m.lastID] = Object{Name: name, Data: append([]byte(nil), data...)}
	return m.lastID, nil
}

func (m *Memory) Stat(_ context.Context, id int64) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[id]
	if !ok {
		return Info{}, ErrNotFound
	}
	return Info{Name: obj.Name, Size: int64(len(obj.Data))}, nil
}

func (m *Memory) Get(_ context.Context, id int64) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[id]
	if !ok {
		return Object{}, ErrNotFound
	}
	return Object{Name: obj.Name, Data: append([]byte(nil), obj.Data...)}, nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[id]; !ok {
		return ErrNotFound
	}
	delete(m.objects, id)
	return nil
}
