package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/core"
	"hrms/internal/platform/clock"
)

type Service struct {
	Store     StoreAPI
	Directory core.Directory
	Clock     clock.Clock
}

func NewService(store StoreAPI, directory core.Directory, clk clock.Clock) *Service {
	return &Service{Store: store, Directory: directory, Clock: clk}
}

func (s *Service) activeEmployee(ctx context.Context, employeeID string) error {
	emp, err := s.Directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if !emp.Active() {
		return ErrEmployeeInactive.WithState(emp.Status)
	}
	return nil
}

// SelfCheckIn opens today's record for the employee. The store's
// (employee, date) uniqueness decides concurrent attempts.
func (s *Service) SelfCheckIn(ctx context.Context, employeeID string) (Record, error) {
	if err := s.activeEmployee(ctx, employeeID); err != nil {
		return Record{}, err
	}
	now := s.Clock.Now()
	checkIn := TimeOfDayOf(now)
	rec := Record{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       clock.Day(now, nil),
		CheckIn:    &checkIn,
		Status:     CheckInStatus(checkIn),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Insert(ctx, rec); err != nil {
		if errors.Is(err, ErrAlreadyCheckedIn) {
			if existing, findErr := s.Store.FindByEmployeeDate(ctx, employeeID, rec.Date); findErr == nil && existing.CheckIn != nil {
				return Record{}, ErrAlreadyCheckedIn.WithState("checked in at " + existing.CheckIn.String())
			}
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) SelfCheckOut(ctx context.Context, employeeID string) (Record, error) {
	now := s.Clock.Now()
	rec, err := s.Store.FindByEmployeeDate(ctx, employeeID, clock.Day(now, nil))
	if errors.Is(err, ErrRecordNotFound) {
		return Record{}, ErrNotCheckedIn
	}
	if err != nil {
		return Record{}, err
	}
	if rec.CheckIn == nil {
		return Record{}, ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return Record{}, ErrAlreadyCheckedOut.WithState("checked out at " + rec.CheckOut.String())
	}

	checkOut := TimeOfDayOf(now)
	rec.CheckOut = &checkOut
	rec.Status = CheckOutStatus(rec.Status, checkOut)
	rec.Recompute()
	rec.UpdatedAt = now

	applied, err := s.Store.CompleteCheckOut(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	if !applied {
		return Record{}, ErrAlreadyCheckedOut
	}
	return rec, nil
}

// AdminUpsert creates the (employee, date) record or merges the supplied
// fields into the stored one. Status defaults to present only on insert.
// Hours are recomputed after the merge.
func (s *Service) AdminUpsert(ctx context.Context, input UpsertInput) (Record, error) {
	if input.Status != "" && !ValidStatus(input.Status) {
		return Record{}, ErrInvalidStatus.WithState(input.Status)
	}
	if _, err := s.Directory.GetEmployee(ctx, input.EmployeeID); err != nil {
		return Record{}, err
	}
	now := s.Clock.Now()
	day := clock.Day(input.Date, now.Location())

	rec, err := s.Store.FindByEmployeeDate(ctx, input.EmployeeID, day)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		rec = Record{
			ID:         uuid.NewString(),
			EmployeeID: input.EmployeeID,
			Date:       day,
			Status:     StatusPresent,
			CreatedAt:  now,
		}
	case err != nil:
		return Record{}, err
	}

	if input.CheckIn != nil {
		rec.CheckIn = input.CheckIn
	}
	if input.CheckOut != nil {
		rec.CheckOut = input.CheckOut
	}
	if input.Status != "" {
		rec.Status = input.Status
	}
	if input.Note != nil {
		rec.Note = *input.Note
	}
	if input.ApprovedBy != "" {
		rec.ApprovedBy = input.ApprovedBy
	}
	rec.UpdatedAt = now
	rec.Recompute()
	return s.Store.Upsert(ctx, rec)
}

func (s *Service) Today(ctx context.Context, employeeID string) (Record, error) {
	return s.Store.FindByEmployeeDate(ctx, employeeID, clock.Day(s.Clock.Now(), nil))
}

func (s *Service) MonthlyHistory(ctx context.Context, employeeID string, year, month int) (MonthlyHistory, error) {
	if month < 1 || month > 12 {
		return MonthlyHistory{}, ErrInvalidPeriod
	}
	loc := s.Clock.Now().Location()
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)
	records, err := s.Store.ListByEmployeeRange(ctx, employeeID, from, to)
	if err != nil {
		return MonthlyHistory{}, err
	}
	if records == nil {
		records = []Record{}
	}
	return MonthlyHistory{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		Records:    records,
		Summary:    Summarize(records),
	}, nil
}

func Summarize(records []Record) Summary {
	out := Summary{Total: len(records)}
	hours := decimal.Zero
	overtime := decimal.Zero
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			out.Present++
		case StatusLate:
			out.Late++
		case StatusLeftEarly:
			out.LeftEarly++
		case StatusAbsent:
			out.Absent++
		}
		if rec.CheckIn != nil {
			out.DaysWorked++
		}
		hours = hours.Add(decimal.NewFromFloat(rec.WorkHours))
		overtime = overtime.Add(decimal.NewFromFloat(rec.Overtime))
	}
	out.WorkHours = hours.Round(hoursPlaces).InexactFloat64()
	out.Overtime = overtime.Round(hoursPlaces).InexactFloat64()
	return out
}
