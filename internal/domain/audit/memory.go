package audit

import (
	"context"
	"sync"
)

// MemoryRecorder keeps entries in process. Tests use it to assert what was audited.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *MemoryRecorder) Record(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryRecorder) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Actions lists the recorded actions in order.
func (m *MemoryRecorder) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}
