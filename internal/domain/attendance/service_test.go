package attendance

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/core"
	"hrms/internal/platform/clock"
)

var testZone = clock.LoadLocation(clock.DefaultZone)

func newTestService(at time.Time) (*Service, *clock.Fixed) {
	clk := &clock.Fixed{At: at}
	dir := core.NewMemoryDirectory(
		core.Employee{ID: "e1", FullName: "Nguyen Van A", Status: core.EmployeeWorking},
		core.Employee{ID: "e2", FullName: "Tran Thi B", Status: core.EmployeeResigned},
	)
	return NewService(NewMemoryStore(), dir, clk), clk
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, testZone)
}

func TestSelfCheckInOutLateDay(t *testing.T) {
	svc, clk := newTestService(at(10, 8, 31))
	ctx := context.Background()

	rec, err := svc.SelfCheckIn(ctx, "e1")
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if rec.Status != StatusLate {
		t.Fatalf("expected late, got %s", rec.Status)
	}

	clk.Set(at(10, 17, 30))
	rec, err = svc.SelfCheckOut(ctx, "e1")
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if rec.Status != StatusLate || rec.WorkHours != 8.98 || rec.Overtime != 0.98 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSelfCheckOutEarly(t *testing.T) {
	svc, clk := newTestService(at(10, 8, 0))
	ctx := context.Background()
	if _, err := svc.SelfCheckIn(ctx, "e1"); err != nil {
		t.Fatalf("check in: %v", err)
	}
	clk.Set(at(10, 15, 0))
	rec, err := svc.SelfCheckOut(ctx, "e1")
	if err != nil {
		t.Fatalf("check out: %v", err)
	}
	if rec.Status != StatusLeftEarly || rec.WorkHours != 7 || rec.Overtime != 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSelfCheckInTwice(t *testing.T) {
	svc, _ := newTestService(at(10, 8, 0))
	ctx := context.Background()
	if _, err := svc.SelfCheckIn(ctx, "e1"); err != nil {
		t.Fatalf("check in: %v", err)
	}
	_, err := svc.SelfCheckIn(ctx, "e1")
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected already checked in, got %v", err)
	}
	if appErr, ok := apperr.As(err); !ok || appErr.State != "checked in at 08:00" {
		t.Fatalf("expected check-in time in state, got %v", err)
	}
}

func TestSelfCheckOutWithoutCheckIn(t *testing.T) {
	svc, _ := newTestService(at(10, 17, 0))
	if _, err := svc.SelfCheckOut(context.Background(), "e1"); !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("expected not checked in, got %v", err)
	}
}

func TestSelfCheckOutTwice(t *testing.T) {
	svc, clk := newTestService(at(10, 8, 0))
	ctx := context.Background()
	if _, err := svc.SelfCheckIn(ctx, "e1"); err != nil {
		t.Fatalf("check in: %v", err)
	}
	clk.Set(at(10, 17, 0))
	if _, err := svc.SelfCheckOut(ctx, "e1"); err != nil {
		t.Fatalf("check out: %v", err)
	}
	if _, err := svc.SelfCheckOut(ctx, "e1"); !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Fatalf("expected already checked out, got %v", err)
	}
}

func TestSelfCheckInResignedEmployee(t *testing.T) {
	svc, _ := newTestService(at(10, 8, 0))
	if _, err := svc.SelfCheckIn(context.Background(), "e2"); !errors.Is(err, ErrEmployeeInactive) {
		t.Fatalf("expected inactive employee error, got %v", err)
	}
	if _, err := svc.SelfCheckIn(context.Background(), "missing"); !errors.Is(err, core.ErrEmployeeNotFound) {
		t.Fatalf("expected employee not found, got %v", err)
	}
}

func TestConcurrentCheckInSingleRecord(t *testing.T) {
	svc, _ := newTestService(at(10, 8, 0))
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SelfCheckIn(ctx, "e1"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if succeeded != 1 {
		t.Fatalf("expected exactly one check-in, got %d", succeeded)
	}
}

func TestAdminUpsertRecomputes(t *testing.T) {
	svc, _ := newTestService(at(10, 9, 0))
	ctx := context.Background()
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, testZone)

	rec, err := svc.AdminUpsert(ctx, UpsertInput{EmployeeID: "e1", Date: day, CheckIn: tod(t, "08:00"), Status: StatusPresent})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.WorkHours != 0 {
		t.Fatalf("expected zero hours without check-out, got %v", rec.WorkHours)
	}

	rec, err = svc.AdminUpsert(ctx, UpsertInput{EmployeeID: "e1", Date: day, CheckIn: tod(t, "08:00"), CheckOut: tod(t, "18:30"), Status: StatusPresent, Note: note("fixed")})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.WorkHours != 10.5 || rec.Overtime != 2.5 || rec.Note != "fixed" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	history, err := svc.MonthlyHistory(ctx, "e1", 2025, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Records) != 1 {
		t.Fatalf("expected upsert to overwrite, got %d records", len(history.Records))
	}

	if _, err := svc.AdminUpsert(ctx, UpsertInput{EmployeeID: "e1", Date: day, Status: "sleeping"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
}

func TestMonthlyHistorySummary(t *testing.T) {
	svc, _ := newTestService(at(20, 9, 0))
	ctx := context.Background()
	inputs := []UpsertInput{
		{EmployeeID: "e1", Date: at(3, 0, 0), CheckIn: tod(t, "08:00"), CheckOut: tod(t, "17:00"), Status: StatusPresent},
		{EmployeeID: "e1", Date: at(4, 0, 0), CheckIn: tod(t, "08:31"), CheckOut: tod(t, "17:30"), Status: StatusLate},
		{EmployeeID: "e1", Date: at(5, 0, 0), Status: StatusAbsent},
		{EmployeeID: "e1", Date: time.Date(2025, 4, 1, 0, 0, 0, 0, testZone), CheckIn: tod(t, "08:00"), CheckOut: tod(t, "17:00"), Status: StatusPresent},
	}
	for _, in := range inputs {
		if _, err := svc.AdminUpsert(ctx, in); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	history, err := svc.MonthlyHistory(ctx, "e1", 2025, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	s := history.Summary
	if s.Total != 3 || s.Present != 1 || s.Late != 1 || s.Absent != 1 || s.DaysWorked != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.WorkHours != 17.98 || s.Overtime != 1.98 {
		t.Fatalf("unexpected totals: %+v", s)
	}

	if _, err := svc.MonthlyHistory(ctx, "e1", 2025, 13); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected invalid period, got %v", err)
	}

	var buf bytes.Buffer
	if err := WriteMonthlyXLSX(&buf, "Nguyen Van A", history); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	value, err := f.GetCellValue(exportSheet, "D5")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if value != StatusLate {
		t.Fatalf("expected second row status late, got %q", value)
	}
}

func note(s string) *string { return &s }

func TestAdminUpsertMergesIntoExistingRecord(t *testing.T) {
	svc, clk := newTestService(at(10, 8, 45))
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, testZone)

	if _, err := svc.SelfCheckIn(ctx, "e1"); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := svc.AdminUpsert(ctx, UpsertInput{EmployeeID: "e1", Date: day, Note: note("forgot badge")}); err != nil {
		t.Fatalf("note edit: %v", err)
	}

	clk.Set(at(11, 9, 0))
	rec, err := svc.AdminUpsert(ctx, UpsertInput{EmployeeID: "e1", Date: day, CheckOut: tod(t, "17:45")})
	if err != nil {
		t.Fatalf("check-out edit: %v", err)
	}
	if rec.CheckIn == nil || rec.CheckIn.String() != "08:45" {
		t.Fatalf("stored check-in lost: %+v", rec.CheckIn)
	}
	if rec.Status != StatusLate || rec.Note != "forgot badge" {
		t.Fatalf("stored status or note lost: %+v", rec)
	}
	if rec.WorkHours != 9 || rec.Overtime != 1 {
		t.Fatalf("expected 9h with 1h overtime, got %v / %v", rec.WorkHours, rec.Overtime)
	}

	stored, err := svc.Store.FindByEmployeeDate(ctx, "e1", day)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.ID != rec.ID || stored.CheckOut == nil || stored.WorkHours != 9 {
		t.Fatalf("unexpected stored record: %+v", stored)
	}
}
