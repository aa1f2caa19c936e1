package contract

import "time"

type Contract struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	ContractNumber string     `json:"contractNumber"`
	ContractType   string     `json:"contractType"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Salary         int64      `json:"salary"`
	Status         string     `json:"status"`
	SignedDate     *time.Time `json:"signedDate,omitempty"`
	SignedBy       string     `json:"signedBy,omitempty"`
	Note           string     `json:"note,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	IsLocked  bool `json:"isLocked"`
	IsExpired bool `json:"isExpired"`
}

// Locked reports whether business fields are frozen.
func (c Contract) Locked() bool {
	switch c.Status {
	case StatusActive, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// PastEnd reports whether the end date lies before now.
func (c Contract) PastEnd(now time.Time) bool {
	return c.EndDate != nil && c.EndDate.Before(now)
}

func (c Contract) withFlags(now time.Time) Contract {
	c.IsLocked = c.Locked()
	c.IsExpired = c.PastEnd(now)
	return c
}

// Input carries the business fields of a contract.
type Input struct {
	EmployeeID   string
	ContractType string
	StartDate    time.Time
	EndDate      *time.Time
	Salary       int64
	Note         string
}

type Filter struct {
	EmployeeID   string
	Status       string
	ContractType string
	Limit        int
	Offset       int
}

type ListResult struct {
	Items []Contract `json:"items"`
	Total int        `json:"total"`
}
