package leave

import (
	"context"
	"fmt"

	"hrms/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const requestColumns = `id, employee_id, leave_type, start_date, end_date, total_days, reason, status,
       COALESCE(approved_by::text, ''), approved_at, reject_reason, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate, &req.TotalDays,
		&req.Reason, &req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.RejectReason, &req.CreatedAt, &req.UpdatedAt)
	return req, err
}

func nullUUID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (s *Store) Insert(ctx context.Context, req Request) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, total_days, reason, status, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
  `, req.ID, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.TotalDays, req.Reason, req.Status, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert leave request: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `SELECT `+requestColumns+` FROM leave_requests WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return Request{}, ErrRequestNotFound
	}
	if err != nil {
		return Request{}, fmt.Errorf("get leave request: %w", err)
	}
	return req, nil
}

func (s *Store) Transition(ctx context.Context, req Request, from string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $3, approved_by = $4, approved_at = $5, reject_reason = $6, updated_at = $7
    WHERE id = $1 AND status = $2
  `, req.ID, from, req.Status, nullUUID(req.ApprovedBy), req.ApprovedAt, req.RejectReason, req.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("transition leave request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) UpdatePending(ctx context.Context, req Request) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET leave_type = $2, start_date = $3, end_date = $4, total_days = $5, reason = $6, updated_at = $7
    WHERE id = $1 AND status = 'pending'
  `, req.ID, req.LeaveType, req.StartDate, req.EndDate, req.TotalDays, req.Reason, req.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("update leave request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) DeletePending(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, fmt.Errorf("delete leave request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) List(ctx context.Context, filter Filter) (ListResult, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.LeaveType != "" {
		args = append(args, filter.LeaveType)
		where += fmt.Sprintf(" AND leave_type = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}

	query := "SELECT " + requestColumns + " FROM leave_requests" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	out := ListResult{Items: []Request{}, Total: total}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return ListResult{}, err
		}
		out.Items = append(out.Items, req)
	}
	return out, rows.Err()
}
