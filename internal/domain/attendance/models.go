package attendance

import "time"

type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Date       time.Time  `json:"date"`
	CheckIn    *TimeOfDay `json:"checkIn,omitempty"`
	CheckOut   *TimeOfDay `json:"checkOut,omitempty"`
	Status     string     `json:"status"`
	WorkHours  float64    `json:"workHours"`
	Overtime   float64    `json:"overtime"`
	Note       string     `json:"note"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Recompute derives WorkHours and Overtime from the check-in/out pair.
func (r *Record) Recompute() {
	r.WorkHours, r.Overtime = ComputeHours(r.CheckIn, r.CheckOut)
}

// UpsertInput is a partial admin edit of the (EmployeeID, Date) record.
// Nil times, an empty Status and a nil Note keep the stored values.
type UpsertInput struct {
	EmployeeID string
	Date       time.Time
	CheckIn    *TimeOfDay
	CheckOut   *TimeOfDay
	Status     string
	Note       *string
	ApprovedBy string
}

type Summary struct {
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Late       int     `json:"late"`
	LeftEarly  int     `json:"earlyLeave"`
	Absent     int     `json:"absent"`
	DaysWorked int     `json:"daysWorked"`
	WorkHours  float64 `json:"workHours"`
	Overtime   float64 `json:"overtime"`
}

type MonthlyHistory struct {
	EmployeeID string   `json:"employeeId"`
	Year       int      `json:"year"`
	Month      int      `json:"month"`
	Records    []Record `json:"records"`
	Summary    Summary  `json:"stats"`
}
