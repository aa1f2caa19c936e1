package reports

import (
	"context"
	"time"

	"hrms/internal/platform/clock"
)

// EndingSoonDays is how far ahead the dashboard looks for contracts ending.
const EndingSoonDays = 30

// Dashboard is the HR overview of work waiting on someone.
type Dashboard struct {
	PendingLeaves            int       `json:"pendingLeaves"`
	ActiveContracts          int       `json:"activeContracts"`
	ContractsEndingSoon      int       `json:"contractsEndingSoon"`
	SalariesAwaitingApproval int       `json:"salariesAwaitingApproval"`
	SalariesAwaitingPayment  int       `json:"salariesAwaitingPayment"`
	CheckedInToday           int       `json:"checkedInToday"`
	Today                    string    `json:"today"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

type StoreAPI interface {
	Counts(ctx context.Context, today, horizon time.Time) (Dashboard, error)
	ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error)
	CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error)
}

type Service struct {
	Store StoreAPI
	Clock clock.Clock
}

func NewService(store StoreAPI, clk clock.Clock) *Service {
	return &Service{Store: store, Clock: clk}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.Clock.Now()
	today := clock.Day(now, nil)
	out, err := s.Store.Counts(ctx, today, today.AddDate(0, 0, EndingSoonDays))
	if err != nil {
		return Dashboard{}, err
	}
	out.Today = today.Format("2006-01-02")
	out.GeneratedAt = now
	return out, nil
}

func (s *Service) JobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, int, error) {
	total, err := s.Store.CountJobRuns(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	runs, err := s.Store.ListJobRuns(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if runs == nil {
		runs = []JobRun{}
	}
	return runs, total, nil
}
