package contract

import (
	"context"
	"time"
)

type StoreAPI interface {
	// Insert fails with ErrNumberTaken when the contract number exists.
	Insert(ctx context.Context, c Contract) error
	ContractNumbers(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (Contract, error)
	// Update writes c only while the stored status equals from.
	Update(ctx context.Context, c Contract, from string) (bool, error)
	// ExpireEndedThrough expires active contracts whose end date is on or before lastDay.
	ExpireEndedThrough(ctx context.Context, lastDay, now time.Time) (int64, error)
	DeletePending(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter Filter) (ListResult, error)
}
