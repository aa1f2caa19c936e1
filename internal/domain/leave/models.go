package leave

import "time"

type Request struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	LeaveType    string     `json:"leaveType"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	TotalDays    int        `json:"totalDays"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	ApprovedBy   string     `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
	RejectReason string     `json:"rejectReason,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type CreateInput struct {
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// EditInput carries the fields to replace; nil fields are kept.
type EditInput struct {
	LeaveType *string
	StartDate *time.Time
	EndDate   *time.Time
	Reason    *string
}

type Filter struct {
	EmployeeID string
	Status     string
	LeaveType  string
	Limit      int
	Offset     int
}

type ListResult struct {
	Items []Request `json:"items"`
	Total int       `json:"total"`
}
