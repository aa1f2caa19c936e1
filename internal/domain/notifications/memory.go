package notifications

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryStore struct {
	mu    sync.Mutex
	items []Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Insert(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, n)
	return nil
}

func (m *MemoryStore) List(_ context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Notification{}
	for _, n := range m.items {
		if n.EmployeeID == employeeID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context, employeeID string) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total, unread int
	for _, n := range m.items {
		if n.EmployeeID != employeeID {
			continue
		}
		total++
		if n.ReadAt == nil {
			unread++
		}
	}
	return total, unread, nil
}

func (m *MemoryStore) MarkRead(_ context.Context, employeeID, notificationID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.ID != notificationID || n.EmployeeID != employeeID {
			continue
		}
		if n.ReadAt == nil {
			m.items[i].ReadAt = &at
		}
		return true, nil
	}
	return false, nil
}
