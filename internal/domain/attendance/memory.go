package attendance

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in process with the same uniqueness rules as Store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (m *MemoryStore) Insert(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(rec.EmployeeID, rec.Date)
	if _, exists := m.records[key]; exists {
		return ErrAlreadyCheckedIn
	}
	m.records[key] = rec
	return nil
}

func (m *MemoryStore) FindByEmployeeDate(_ context.Context, employeeID string, date time.Time) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[dayKey(employeeID, date)]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

func (m *MemoryStore) CompleteCheckOut(_ context.Context, rec Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(rec.EmployeeID, rec.Date)
	current, ok := m.records[key]
	if !ok || current.ID != rec.ID || current.CheckOut != nil {
		return false, nil
	}
	current.CheckOut = rec.CheckOut
	current.Status = rec.Status
	current.WorkHours = rec.WorkHours
	current.Overtime = rec.Overtime
	current.UpdatedAt = rec.UpdatedAt
	m.records[key] = current
	return true, nil
}

func (m *MemoryStore) Upsert(_ context.Context, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(rec.EmployeeID, rec.Date)
	if current, ok := m.records[key]; ok {
		rec.ID = current.ID
		rec.CreatedAt = current.CreatedAt
	}
	m.records[key] = rec
	return rec, nil
}

func (m *MemoryStore) ListByEmployeeRange(_ context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		if rec.EmployeeID != employeeID || rec.Date.Before(from) || !rec.Date.Before(to) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
