package notifications

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, n Notification) error
	List(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error)
	Count(ctx context.Context, employeeID string) (total, unread int, err error)
	MarkRead(ctx context.Context, employeeID, notificationID string, at time.Time) (bool, error)
}
