package leave

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, req Request) error
	Get(ctx context.Context, id string) (Request, error)
	// Transition persists req only while the stored status equals from.
	Transition(ctx context.Context, req Request, from string) (bool, error)
	// UpdatePending replaces the editable fields while the request is pending.
	UpdatePending(ctx context.Context, req Request) (bool, error)
	DeletePending(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter Filter) (ListResult, error)
}
