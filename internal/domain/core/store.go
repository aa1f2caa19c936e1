package core

import (
	"context"
	"fmt"

	"hrms/internal/domain/apperr"
	"hrms/internal/platform/db"
)

var ErrEmployeeNotFound = apperr.NotFound("employee_not_found", "employee not found")

// Directory resolves employee snapshots.
type Directory interface {
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT e.id, e.employee_code, e.full_name, e.email,
           e.position_id, p.name,
           COALESCE(e.department_id::text, ''),
           e.base_salary, e.hire_date, e.status
    FROM employees e
    JOIN positions p ON p.id = e.position_id
    WHERE e.id = $1
  `, employeeID).Scan(&emp.ID, &emp.Code, &emp.FullName, &emp.Email, &emp.PositionID, &emp.PositionName,
		&emp.DepartmentID, &emp.BaseSalary, &emp.HireDate, &emp.Status)
	if db.IsNoRows(err) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return emp, nil
}
