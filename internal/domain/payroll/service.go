package payroll

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/attendance"
	"hrms/internal/domain/core"
	"hrms/internal/platform/clock"
)

// AttendanceSource supplies the month's attendance used to pre-fill a record.
type AttendanceSource interface {
	MonthlyHistory(ctx context.Context, employeeID string, year, month int) (attendance.MonthlyHistory, error)
}

type Service struct {
	Store      StoreAPI
	Directory  core.Directory
	Attendance AttendanceSource
	Clock      clock.Clock
}

func NewService(store StoreAPI, directory core.Directory, source AttendanceSource, clk clock.Clock) *Service {
	return &Service{Store: store, Directory: directory, Attendance: source, Clock: clk}
}

func (s *Service) Calculate(in SalaryInput) (Breakdown, error) {
	return Calculate(in)
}

func (s *Service) Create(ctx context.Context, input RecordInput) (Record, error) {
	if err := validatePeriod(input.Month, input.Year); err != nil {
		return Record{}, err
	}
	emp, err := s.Directory.GetEmployee(ctx, input.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	now := s.Clock.Now()
	rec := Record{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		Month:      input.Month,
		Year:       input.Year,
		Status:     StatusPending,
		CreatedAt:  now,
	}
	if err := s.apply(ctx, &rec, emp, input); err != nil {
		return Record{}, err
	}
	rec.UpdatedAt = now
	if err := s.Store.Insert(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update merges patch into the stored record and recomputes it. Paid records
// are terminal.
func (s *Service) Update(ctx context.Context, id string, patch RecordPatch) (Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Status == StatusPaid {
		return Record{}, ErrRecordPaid.WithState(rec.Status)
	}
	emp, err := s.Directory.GetEmployee(ctx, rec.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	if err := s.apply(ctx, &rec, emp, patch.Merge(rec)); err != nil {
		return Record{}, err
	}
	rec.UpdatedAt = s.Clock.Now()
	applied, err := s.Store.Update(ctx, rec, rec.Status)
	if err != nil {
		return Record{}, err
	}
	if !applied {
		current, err := s.Store.Get(ctx, id)
		if err != nil {
			return Record{}, err
		}
		if current.Status == StatusPaid {
			return Record{}, ErrRecordPaid.WithState(current.Status)
		}
		return Record{}, ErrRecordChanged.WithState(current.Status)
	}
	return rec, nil
}

func (s *Service) Approve(ctx context.Context, id, approverID string) (Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != StatusPending {
		return Record{}, ErrNotPending.WithState(rec.Status)
	}
	rec.Status = StatusApproved
	rec.ApprovedBy = approverID
	rec.UpdatedAt = s.Clock.Now()
	return s.save(ctx, rec, StatusPending, ErrNotPending)
}

func (s *Service) MarkPaid(ctx context.Context, id string) (Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.Status == StatusPaid {
		return Record{}, ErrRecordPaid.WithState(rec.Status)
	}
	if rec.Status != StatusApproved {
		return Record{}, ErrNotApproved.WithState(rec.Status)
	}
	now := s.Clock.Now()
	rec.Status = StatusPaid
	rec.PaidDate = &now
	rec.UpdatedAt = now
	return s.save(ctx, rec, StatusApproved, ErrNotApproved)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status == StatusPaid {
		return ErrRecordPaid.WithState(rec.Status)
	}
	deleted, err := s.Store.DeleteUnpaid(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecordPaid.WithState(StatusPaid)
	}
	return nil
}

// Get loads a record and rejects one whose stored totals no longer match
// its components.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if err := rec.CheckTotals(); err != nil {
		slog.Error("salary totals mismatch", "salaryId", rec.ID, "net", rec.NetSalary)
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context, filter Filter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]Record, error) {
	res, err := s.Store.List(ctx, Filter{EmployeeID: employeeID, Limit: 120})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// CheckExist reports the record for (employee, month, year) when there is one.
func (s *Service) CheckExist(ctx context.Context, employeeID string, month, year int) (Record, bool, error) {
	if err := validatePeriod(month, year); err != nil {
		return Record{}, false, err
	}
	rec, err := s.Store.FindByPeriod(ctx, employeeID, month, year)
	if errors.Is(err, ErrRecordNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// apply copies input onto rec, derives insurance and tax through Calculate and
// recomputes the totals.
func (s *Service) apply(ctx context.Context, rec *Record, emp core.Employee, input RecordInput) error {
	base := emp.BaseSalary
	if input.BaseSalary != nil {
		base = *input.BaseSalary
	}
	for _, amount := range []int64{
		input.Allowances.Housing, input.Allowances.Other,
		input.UnemploymentInsurance, input.OtherDeduction, input.OvertimePay,
	} {
		if amount < 0 {
			return ErrNegativeAmount
		}
	}
	breakdown, err := Calculate(SalaryInput{
		BaseSalary: base,
		Food:       input.Allowances.Food,
		Transport:  input.Allowances.Transport,
		Phone:      input.Allowances.Phone,
		Bonus:      input.Bonus,
		Tax:        input.Tax,
	})
	if err != nil {
		return err
	}

	rec.BaseSalary = base
	rec.Allowances = input.Allowances
	rec.Bonus = input.Bonus
	rec.BonusNote = input.BonusNote
	rec.Deductions = Deductions{
		SocialInsurance:       breakdown.SocialInsurance,
		HealthInsurance:       breakdown.HealthInsurance,
		UnemploymentInsurance: input.UnemploymentInsurance,
		Tax:                   breakdown.Tax,
		Other:                 input.OtherDeduction,
	}
	rec.OvertimePay = input.OvertimePay
	rec.WorkingDays = input.WorkingDays
	rec.LeaveDays = input.LeaveDays
	rec.Note = input.Note

	if input.OvertimeHours == nil || input.ActualWorkingDays == nil {
		summary := s.attendanceSummary(ctx, rec.EmployeeID, rec.Year, rec.Month)
		if input.OvertimeHours == nil {
			rec.OvertimeHours = summary.Overtime
		}
		if input.ActualWorkingDays == nil {
			rec.ActualWorkingDays = float64(summary.DaysWorked)
		}
	}
	if input.OvertimeHours != nil {
		rec.OvertimeHours = *input.OvertimeHours
	}
	if input.ActualWorkingDays != nil {
		rec.ActualWorkingDays = *input.ActualWorkingDays
	}

	rec.ComputeTotals()
	return nil
}

func (s *Service) attendanceSummary(ctx context.Context, employeeID string, year, month int) attendance.Summary {
	if s.Attendance == nil {
		return attendance.Summary{}
	}
	history, err := s.Attendance.MonthlyHistory(ctx, employeeID, year, month)
	if err != nil {
		slog.Warn("salary attendance prefill failed", "employeeId", employeeID, "year", year, "month", month, "err", err)
		return attendance.Summary{}
	}
	return history.Summary
}

// save writes rec conditionally on the status it was read with. A lost race
// reloads the record to report its current state.
func (s *Service) save(ctx context.Context, rec Record, from string, conflict *apperr.Error) (Record, error) {
	applied, err := s.Store.Update(ctx, rec, from)
	if err != nil {
		return Record{}, err
	}
	if !applied {
		current, err := s.Store.Get(ctx, rec.ID)
		if err != nil {
			return Record{}, err
		}
		return Record{}, conflict.WithState(current.Status)
	}
	return rec, nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 || year < 1 {
		return ErrInvalidPeriod
	}
	return nil
}
