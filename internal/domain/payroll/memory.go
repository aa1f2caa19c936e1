package payroll

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore mirrors Store's uniqueness and conditional updates in process.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, year, month)
}

func (m *MemoryStore) Insert(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := periodKey(rec.EmployeeID, rec.Month, rec.Year)
	for _, existing := range m.records {
		if periodKey(existing.EmployeeID, existing.Month, existing.Year) == key {
			return ErrDuplicatePeriod
		}
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

func (m *MemoryStore) FindByPeriod(_ context.Context, employeeID string, month, year int) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID && rec.Month == month && rec.Year == year {
			return rec, nil
		}
	}
	return Record{}, ErrRecordNotFound
}

func (m *MemoryStore) Update(_ context.Context, rec Record, from string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[rec.ID]
	if !ok || current.Status != from {
		return false, nil
	}
	m.records[rec.ID] = rec
	return true, nil
}

func (m *MemoryStore) DeleteUnpaid(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[id]
	if !ok || current.Status == StatusPaid {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *MemoryStore) List(_ context.Context, filter Filter) (ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []Record{}
	for _, rec := range m.records {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Month > 0 && rec.Month != filter.Month {
			continue
		}
		if filter.Year > 0 && rec.Year != filter.Year {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		items = append(items, rec)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Year != items[j].Year {
			return items[i].Year > items[j].Year
		}
		return items[i].Month > items[j].Month
	})
	total := len(items)
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			items = []Record{}
		} else {
			items = items[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return ListResult{Items: items, Total: total}, nil
}
