package contract

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore mirrors Store's unique contract numbers and conditional updates.
type MemoryStore struct {
	mu        sync.Mutex
	contracts map[string]Contract
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{contracts: map[string]Contract{}}
}

func (m *MemoryStore) Insert(_ context.Context, c Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.contracts {
		if existing.ContractNumber == c.ContractNumber {
			return ErrNumberTaken.WithState(c.ContractNumber)
		}
	}
	m.contracts[c.ID] = c
	return nil
}

func (m *MemoryStore) ContractNumbers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.contracts))
	for _, c := range m.contracts {
		out = append(out, c.ContractNumber)
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok {
		return Contract{}, ErrContractNotFound
	}
	return c, nil
}

func (m *MemoryStore) Update(_ context.Context, c Contract, from string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.contracts[c.ID]
	if !ok || current.Status != from {
		return false, nil
	}
	c.ContractNumber = current.ContractNumber
	c.CreatedAt = current.CreatedAt
	c.IsLocked, c.IsExpired = false, false
	m.contracts[c.ID] = c
	return true, nil
}

func (m *MemoryStore) ExpireEndedThrough(_ context.Context, lastDay, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.contracts {
		if c.Status != StatusActive || c.EndDate == nil || c.EndDate.After(lastDay) {
			continue
		}
		c.Status = StatusExpired
		c.UpdatedAt = now
		m.contracts[id] = c
		n++
	}
	return n, nil
}

func (m *MemoryStore) DeletePending(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok || c.Status != StatusPendingSignature {
		return false, nil
	}
	delete(m.contracts, id)
	return true, nil
}

func (m *MemoryStore) List(_ context.Context, filter Filter) (ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []Contract{}
	for _, c := range m.contracts {
		if filter.EmployeeID != "" && c.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ContractType != "" && c.ContractType != filter.ContractType {
			continue
		}
		items = append(items, c)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ContractNumber > items[j].ContractNumber })
	total := len(items)
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			items = []Contract{}
		} else {
			items = items[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return ListResult{Items: items, Total: total}, nil
}
