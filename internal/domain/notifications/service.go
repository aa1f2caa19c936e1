package notifications

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/core"
	"hrms/internal/platform/clock"
)

var ErrNotificationNotFound = apperr.NotFound("notification_not_found", "notification not found")

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Sender is what the workflow handlers depend on.
type Sender interface {
	Notify(ctx context.Context, employeeID, ntype, title, body string) error
}

type Service struct {
	Store     StoreAPI
	Directory core.Directory
	Mailer    Mailer
	From      string
	Clock     clock.Clock
}

func NewService(store StoreAPI, directory core.Directory, mailer Mailer, from string, clk clock.Clock) *Service {
	if from == "" {
		from = "no-reply@example.com"
	}
	return &Service{Store: store, Directory: directory, Mailer: mailer, From: from, Clock: clk}
}

// Notify stores the inbox entry and then mails the employee. Mail failures
// are logged and never fail the call.
func (s *Service) Notify(ctx context.Context, employeeID, ntype, title, body string) error {
	n := Notification{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Type:       ntype,
		Title:      title,
		Body:       body,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Store.Insert(ctx, n); err != nil {
		return err
	}

	if s.Mailer == nil || s.Directory == nil {
		return nil
	}
	emp, err := s.Directory.GetEmployee(ctx, employeeID)
	if err != nil {
		slog.Warn("notification email lookup failed", "employeeId", employeeID, "err", err)
		return nil
	}
	if strings.TrimSpace(emp.Email) == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.From, emp.Email, title, body); err != nil {
		slog.Warn("notification email send failed", "employeeId", employeeID, "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, employeeID string, limit, offset int) (ListResult, error) {
	items, err := s.Store.List(ctx, employeeID, limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	total, unread, err := s.Store.Count(ctx, employeeID)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total, Unread: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, employeeID, notificationID string) error {
	ok, err := s.Store.MarkRead(ctx, employeeID, notificationID, s.Clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
