package leave

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore mirrors Store's conditional writes in process.
type MemoryStore struct {
	mu       sync.Mutex
	requests map[string]Request
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requests: map[string]Request{}}
}

func (m *MemoryStore) Insert(_ context.Context, req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return req, nil
}

func (m *MemoryStore) Transition(_ context.Context, req Request, from string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.requests[req.ID]
	if !ok || current.Status != from {
		return false, nil
	}
	m.requests[req.ID] = req
	return true, nil
}

func (m *MemoryStore) UpdatePending(_ context.Context, req Request) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.requests[req.ID]
	if !ok || current.Status != StatusPending {
		return false, nil
	}
	current.LeaveType = req.LeaveType
	current.StartDate = req.StartDate
	current.EndDate = req.EndDate
	current.TotalDays = req.TotalDays
	current.Reason = req.Reason
	current.UpdatedAt = req.UpdatedAt
	m.requests[req.ID] = current
	return true, nil
}

func (m *MemoryStore) DeletePending(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.requests[id]
	if !ok || current.Status != StatusPending {
		return false, nil
	}
	delete(m.requests, id)
	return true, nil
}

func (m *MemoryStore) List(_ context.Context, filter Filter) (ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []Request{}
	for _, req := range m.requests {
		if filter.EmployeeID != "" && req.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.LeaveType != "" && req.LeaveType != filter.LeaveType {
			continue
		}
		items = append(items, req)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	total := len(items)
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			items = []Request{}
		} else {
			items = items[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return ListResult{Items: items, Total: total}, nil
}
