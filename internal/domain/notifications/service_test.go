package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrms/internal/domain/core"
	"hrms/internal/platform/clock"
)

type sentMail struct {
	from, to, subject string
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, from, to, subject, _ string) error {
	m.sent = append(m.sent, sentMail{from: from, to: to, subject: subject})
	return m.err
}

func newTestService(mailer Mailer) (*Service, *clock.Fixed) {
	clk := &clock.Fixed{At: time.Date(2025, 3, 10, 9, 0, 0, 0, clock.LoadLocation(clock.DefaultZone))}
	dir := core.NewMemoryDirectory(
		core.Employee{ID: "e1", FullName: "Nguyen Van A", Email: "a@example.com", Status: core.EmployeeWorking},
		core.Employee{ID: "e2", FullName: "Tran Thi B", Status: core.EmployeeWorking},
	)
	return NewService(NewMemoryStore(), dir, mailer, "hr@example.com", clk), clk
}

func TestNotifyStoresAndMails(t *testing.T) {
	mailer := &recordingMailer{}
	svc, _ := newTestService(mailer)

	if err := svc.Notify(context.Background(), "e1", TypeLeaveApproved, "Leave approved", "body"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := svc.Notify(context.Background(), "e2", TypeSalaryPaid, "Salary paid", "body"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one mail for the employee with an address, got %d", len(mailer.sent))
	}
	if got := mailer.sent[0]; got.to != "a@example.com" || got.from != "hr@example.com" || got.subject != "Leave approved" {
		t.Fatalf("unexpected mail %+v", got)
	}

	res, err := svc.List(context.Background(), "e1", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 || res.Unread != 1 || res.Items[0].Type != TypeLeaveApproved {
		t.Fatalf("unexpected inbox %+v", res)
	}
}

func TestMailFailureDoesNotFailNotify(t *testing.T) {
	svc, _ := newTestService(&recordingMailer{err: errors.New("smtp down")})
	if err := svc.Notify(context.Background(), "e1", TypeContractSigned, "Contract signed", "body"); err != nil {
		t.Fatalf("expected mail failure to be swallowed, got %v", err)
	}
	if err := svc.Notify(context.Background(), "missing", TypeContractSigned, "Contract signed", "body"); err != nil {
		t.Fatalf("expected lookup failure to be swallowed, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	svc, clk := newTestService(nil)
	ctx := context.Background()
	_ = svc.Notify(ctx, "e1", TypeLeaveRejected, "first", "")
	clk.Set(clk.At.Add(time.Hour))
	_ = svc.Notify(ctx, "e1", TypeSalaryPaid, "second", "")

	res, _ := svc.List(ctx, "e1", 10, 0)
	if res.Items[0].Title != "second" {
		t.Fatalf("expected newest first, got %q", res.Items[0].Title)
	}

	if err := svc.MarkRead(ctx, "e2", res.Items[0].ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected not found for another employee, got %v", err)
	}
	if err := svc.MarkRead(ctx, "e1", res.Items[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	res, _ = svc.List(ctx, "e1", 10, 0)
	if res.Unread != 1 || res.Items[0].ReadAt == nil {
		t.Fatalf("unexpected inbox after read %+v", res)
	}
}
