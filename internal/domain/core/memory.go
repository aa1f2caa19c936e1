package core

import (
	"context"
	"sync"
)

// MemoryDirectory is an in-process Directory used by tests and tooling.
type MemoryDirectory struct {
	mu        sync.RWMutex
	employees map[string]Employee
}

func NewMemoryDirectory(employees ...Employee) *MemoryDirectory {
	d := &MemoryDirectory{employees: map[string]Employee{}}
	for _, emp := range employees {
		d.employees[emp.ID] = emp
	}
	return d
}

func (d *MemoryDirectory) Put(emp Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.employees[emp.ID] = emp
}

func (d *MemoryDirectory) GetEmployee(_ context.Context, employeeID string) (Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	emp, ok := d.employees[employeeID]
	if !ok {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, nil
}
