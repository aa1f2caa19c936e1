package payroll

import (
	"context"
	"fmt"

	"hrms/internal/platform/db"
)

const employeePeriodConstraint = "salary_employee_period_key"

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const recordColumns = `id, employee_id, month, year, base_salary,
       allowance_food, allowance_transport, allowance_phone, allowance_housing, allowance_other,
       bonus, bonus_note,
       deduction_social, deduction_health, deduction_unemployment, deduction_tax, deduction_other,
       overtime_hours, overtime_pay, working_days, actual_working_days, leave_days,
       total_allowance, total_deduction, net_salary, status, COALESCE(approved_by::text, ''), paid_date, note,
       created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.EmployeeID, &r.Month, &r.Year, &r.BaseSalary,
		&r.Allowances.Food, &r.Allowances.Transport, &r.Allowances.Phone, &r.Allowances.Housing, &r.Allowances.Other,
		&r.Bonus, &r.BonusNote,
		&r.Deductions.SocialInsurance, &r.Deductions.HealthInsurance, &r.Deductions.UnemploymentInsurance, &r.Deductions.Tax, &r.Deductions.Other,
		&r.OvertimeHours, &r.OvertimePay, &r.WorkingDays, &r.ActualWorkingDays, &r.LeaveDays,
		&r.TotalAllowance, &r.TotalDeduction, &r.NetSalary, &r.Status, &r.ApprovedBy, &r.PaidDate, &r.Note,
		&r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func nullUUID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (s *Store) Insert(ctx context.Context, r Record) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO salary_records (
      id, employee_id, month, year, base_salary,
      allowance_food, allowance_transport, allowance_phone, allowance_housing, allowance_other,
      bonus, bonus_note,
      deduction_social, deduction_health, deduction_unemployment, deduction_tax, deduction_other,
      overtime_hours, overtime_pay, working_days, actual_working_days, leave_days,
      total_allowance, total_deduction, net_salary, status, note, created_at, updated_at
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29)
  `, r.ID, r.EmployeeID, r.Month, r.Year, r.BaseSalary,
		r.Allowances.Food, r.Allowances.Transport, r.Allowances.Phone, r.Allowances.Housing, r.Allowances.Other,
		r.Bonus, r.BonusNote,
		r.Deductions.SocialInsurance, r.Deductions.HealthInsurance, r.Deductions.UnemploymentInsurance, r.Deductions.Tax, r.Deductions.Other,
		r.OvertimeHours, r.OvertimePay, r.WorkingDays, r.ActualWorkingDays, r.LeaveDays,
		r.TotalAllowance, r.TotalDeduction, r.NetSalary, r.Status, r.Note, r.CreatedAt, r.UpdatedAt)
	if db.IsUniqueViolation(err, employeePeriodConstraint) {
		return ErrDuplicatePeriod
	}
	if err != nil {
		return fmt.Errorf("insert salary record: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `SELECT `+recordColumns+` FROM salary_records WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get salary record: %w", err)
	}
	return rec, nil
}

func (s *Store) FindByPeriod(ctx context.Context, employeeID string, month, year int) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM salary_records
    WHERE employee_id = $1 AND month = $2 AND year = $3
  `, employeeID, month, year))
	if db.IsNoRows(err) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find salary record: %w", err)
	}
	return rec, nil
}

func (s *Store) Update(ctx context.Context, r Record, from string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_records SET
      base_salary = $3,
      allowance_food = $4, allowance_transport = $5, allowance_phone = $6, allowance_housing = $7, allowance_other = $8,
      bonus = $9, bonus_note = $10,
      deduction_social = $11, deduction_health = $12, deduction_unemployment = $13, deduction_tax = $14, deduction_other = $15,
      overtime_hours = $16, overtime_pay = $17, working_days = $18, actual_working_days = $19, leave_days = $20,
      total_allowance = $21, total_deduction = $22, net_salary = $23,
      status = $24, approved_by = $25, paid_date = $26, note = $27, updated_at = $28
    WHERE id = $1 AND status = $2
  `, r.ID, from, r.BaseSalary,
		r.Allowances.Food, r.Allowances.Transport, r.Allowances.Phone, r.Allowances.Housing, r.Allowances.Other,
		r.Bonus, r.BonusNote,
		r.Deductions.SocialInsurance, r.Deductions.HealthInsurance, r.Deductions.UnemploymentInsurance, r.Deductions.Tax, r.Deductions.Other,
		r.OvertimeHours, r.OvertimePay, r.WorkingDays, r.ActualWorkingDays, r.LeaveDays,
		r.TotalAllowance, r.TotalDeduction, r.NetSalary,
		r.Status, nullUUID(r.ApprovedBy), r.PaidDate, r.Note, r.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("update salary record: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) DeleteUnpaid(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `DELETE FROM salary_records WHERE id = $1 AND status <> 'paid'`, id)
	if err != nil {
		return false, fmt.Errorf("delete salary record: %w", err)
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
	if filter.Month > 0 {
		args = append(args, filter.Month)
		where += fmt.Sprintf(" AND month = $%d", len(args))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		where += fmt.Sprintf(" AND year = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM salary_records"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}
	query := "SELECT " + recordColumns + " FROM salary_records" + where +
		fmt.Sprintf(" ORDER BY year DESC, month DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	out := ListResult{Items: []Record{}, Total: total}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return ListResult{}, err
		}
		out.Items = append(out.Items, rec)
	}
	return out, rows.Err()
}
