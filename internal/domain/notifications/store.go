package notifications

import (
	"context"
	"fmt"
	"time"

	"hrms/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) Insert(ctx context.Context, n Notification) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (id, employee_id, type, title, body, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, n.ID, n.EmployeeID, n.Type, n.Title, n.Body, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, type, title, body, read_at, created_at
    FROM notifications
    WHERE employee_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context, employeeID string) (int, int, error) {
	var total, unread int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COUNT(1) FILTER (WHERE read_at IS NULL)
    FROM notifications
    WHERE employee_id = $1
  `, employeeID).Scan(&total, &unread)
	return total, unread, err
}

func (s *Store) MarkRead(ctx context.Context, employeeID, notificationID string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = COALESCE(read_at, $3)
    WHERE employee_id = $1 AND id = $2
  `, employeeID, notificationID, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
