package core

import "time"

const (
	EmployeeWorking  = "working"
	EmployeeResigned = "resigned"
	EmployeeOnLeave  = "on_leave"
)

// Employee is the read-only snapshot the payroll and attendance engine works from.
type Employee struct {
	ID           string    `json:"id"`
	Code         string    `json:"employeeCode"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PositionID   string    `json:"positionId"`
	PositionName string    `json:"positionName"`
	DepartmentID string    `json:"departmentId,omitempty"`
	BaseSalary   int64     `json:"baseSalary"`
	HireDate     time.Time `json:"hireDate"`
	Status       string    `json:"status"`
}

func (e Employee) Active() bool {
	return e.Status != EmployeeResigned
}
