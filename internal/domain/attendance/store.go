package attendance

import (
	"context"
	"fmt"
	"time"

	"hrms/internal/platform/db"
)

const employeeDayConstraint = "attendance_employee_day_key"

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = `id, employee_id, work_date, COALESCE(check_in, ''), COALESCE(check_out, ''),
       status, work_hours, overtime, note, COALESCE(approved_by::text, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var checkIn, checkOut string
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &checkIn, &checkOut,
		&rec.Status, &rec.WorkHours, &rec.Overtime, &rec.Note, &rec.ApprovedBy, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	var err error
	if rec.CheckIn, err = ParseOptionalTimeOfDay(checkIn); err != nil {
		return Record{}, err
	}
	if rec.CheckOut, err = ParseOptionalTimeOfDay(checkOut); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func clockText(t *TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}

func nullUUID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (s *Store) Insert(ctx context.Context, rec Record) error {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO attendance_records (id, employee_id, work_date, check_in, check_out, status, work_hours, overtime, note, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
    ON CONFLICT (employee_id, work_date) DO NOTHING
  `, rec.ID, rec.EmployeeID, rec.Date, clockText(rec.CheckIn), clockText(rec.CheckOut),
		rec.Status, rec.WorkHours, rec.Overtime, rec.Note, rec.CreatedAt)
	if db.IsUniqueViolation(err, employeeDayConstraint) {
		return ErrAlreadyCheckedIn
	}
	if err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyCheckedIn
	}
	return nil
}

func (s *Store) FindByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND work_date = $2
  `, employeeID, date))
	if db.IsNoRows(err) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find attendance: %w", err)
	}
	return rec, nil
}

func (s *Store) CompleteCheckOut(ctx context.Context, rec Record) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET check_out = $2, status = $3, work_hours = $4, overtime = $5, updated_at = $6
    WHERE id = $1 AND check_out IS NULL
  `, rec.ID, clockText(rec.CheckOut), rec.Status, rec.WorkHours, rec.Overtime, rec.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("check out: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Upsert(ctx context.Context, rec Record) (Record, error) {
	out, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (id, employee_id, work_date, check_in, check_out, status, work_hours, overtime, note, approved_by, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
    ON CONFLICT (employee_id, work_date) DO UPDATE
    SET check_in = EXCLUDED.check_in,
        check_out = EXCLUDED.check_out,
        status = EXCLUDED.status,
        work_hours = EXCLUDED.work_hours,
        overtime = EXCLUDED.overtime,
        note = EXCLUDED.note,
        approved_by = EXCLUDED.approved_by,
        updated_at = EXCLUDED.updated_at
    RETURNING `+recordColumns,
		rec.ID, rec.EmployeeID, rec.Date, clockText(rec.CheckIn), clockText(rec.CheckOut),
		rec.Status, rec.WorkHours, rec.Overtime, rec.Note, nullUUID(rec.ApprovedBy), rec.UpdatedAt))
	if err != nil {
		return Record{}, fmt.Errorf("upsert attendance: %w", err)
	}
	return out, nil
}

func (s *Store) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND work_date >= $2 AND work_date < $3
    ORDER BY work_date
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
