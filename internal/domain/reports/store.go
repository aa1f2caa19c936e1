package reports

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"hrms/internal/domain/contract"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/payroll"
	"hrms/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

// Counts runs one aggregate per dashboard figure. horizon bounds the
// contracts-ending window, inclusive.
func (s *Store) Counts(ctx context.Context, today, horizon time.Time) (Dashboard, error) {
	var out Dashboard
	todayDate := today.Format("2006-01-02")
	horizonDate := horizon.Format("2006-01-02")
	queries := []struct {
		dest *int
		sql  string
		args []any
	}{
		{&out.PendingLeaves, "SELECT COUNT(1) FROM leave_requests WHERE status = $1", []any{leave.StatusPending}},
		{&out.ActiveContracts, "SELECT COUNT(1) FROM contracts WHERE status = $1", []any{contract.StatusActive}},
		{&out.ContractsEndingSoon, "SELECT COUNT(1) FROM contracts WHERE status = $1 AND end_date >= $2::date AND end_date <= $3::date", []any{contract.StatusActive, todayDate, horizonDate}},
		{&out.SalariesAwaitingApproval, "SELECT COUNT(1) FROM salary_records WHERE status = $1", []any{payroll.StatusPending}},
		{&out.SalariesAwaitingPayment, "SELECT COUNT(1) FROM salary_records WHERE status = $1", []any{payroll.StatusApproved}},
		{&out.CheckedInToday, "SELECT COUNT(1) FROM attendance_records WHERE work_date = $1::date AND check_in IS NOT NULL", []any{todayDate}},
	}
	for _, q := range queries {
		if err := s.DB.QueryRow(ctx, q.sql, q.args...).Scan(q.dest); err != nil {
			return Dashboard{}, err
		}
	}
	return out, nil
}

type JobRunFilter struct {
	JobType     string
	Status      string
	StartedFrom *time.Time
	StartedTo   *time.Time
}

type JobRun struct {
	ID          string         `json:"id"`
	JobType     string         `json:"jobType"`
	Status      string         `json:"status"`
	Details     map[string]any `json:"details"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func (s *Store) ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error) {
	query, args := buildJobRunsBaseQuery(filter)
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []JobRun
	for rows.Next() {
		var run JobRun
		var detailsRaw []byte
		if err := rows.Scan(&run.ID, &run.JobType, &run.Status, &detailsRaw, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.Details = decodeDetails(detailsRaw)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error) {
	query, args := buildJobRunsBaseQuery(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ("+query+") job_runs", args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildJobRunsBaseQuery(filter JobRunFilter) (string, []any) {
	query := `
    SELECT id, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at
    FROM job_runs
    WHERE 1=1
  `
	var args []any

	if value := strings.TrimSpace(filter.JobType); value != "" {
		query += " AND job_type = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		query += " AND status = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if filter.StartedFrom != nil && !filter.StartedFrom.IsZero() {
		query += " AND started_at >= $" + strconv.Itoa(len(args)+1)
		args = append(args, *filter.StartedFrom)
	}
	if filter.StartedTo != nil && !filter.StartedTo.IsZero() {
		query += " AND started_at <= $" + strconv.Itoa(len(args)+1)
		args = append(args, *filter.StartedTo)
	}

	return query, args
}

func decodeDetails(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	details := map[string]any{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return map[string]any{
			"raw": string(raw),
		}
	}
	return details
}
