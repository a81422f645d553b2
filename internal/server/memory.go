package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// MemoryStore is an in-process UserStore. It backs tests and throwaway
// servers started without a persistent backend.
type MemoryStore struct {
	// Err, when set, is returned by every call.
	Err  error
	rows []model.UserRow
	mu   sync.Mutex
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Rows implements UserStore.
func (m *MemoryStore) Rows(_ context.Context) ([]model.UserRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.UserRow, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

// Append implements UserStore.
func (m *MemoryStore) Append(_ context.Context, row model.UserRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.rows = append(m.rows, row)
	return nil
}

// UpdateData implements UserStore.
func (m *MemoryStore) UpdateData(_ context.Context, index int, data string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if index < 0 || index >= len(m.rows) {
		return fmt.Errorf("row %d out of range", index)
	}
	m.rows[index].Data = data
	m.rows[index].LastUpdated = at
	return nil
}
