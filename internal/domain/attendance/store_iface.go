package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	// Insert fails with ErrAlreadyCheckedIn when (employee, date) exists.
	Insert(ctx context.Context, rec Record) error
	FindByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (Record, error)
	// CompleteCheckOut writes the check-out only while check_out is unset.
	CompleteCheckOut(ctx context.Context, rec Record) (bool, error)
	Upsert(ctx context.Context, rec Record) (Record, error)
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
}
