package payroll

import "context"

type StoreAPI interface {
	// Insert fails with ErrDuplicatePeriod when (employee, month, year) exists.
	Insert(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	FindByPeriod(ctx context.Context, employeeID string, month, year int) (Record, error)
	// Update writes rec only while the stored status equals from.
	Update(ctx context.Context, rec Record, from string) (bool, error)
	DeleteUnpaid(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter Filter) (ListResult, error)
}
