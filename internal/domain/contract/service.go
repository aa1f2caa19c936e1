package contract

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrms/internal/domain/apperr"
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

// Create stores a new contract awaiting signature under the next free number.
// A number collision with a concurrent creation is retried once.
func (s *Service) Create(ctx context.Context, input Input) (Contract, error) {
	input = s.normalize(input)
	if err := validateInput(input); err != nil {
		return Contract{}, err
	}
	if _, err := s.Directory.GetEmployee(ctx, input.EmployeeID); err != nil {
		return Contract{}, err
	}

	now := s.Clock.Now()
	c := Contract{
		ID:           uuid.NewString(),
		EmployeeID:   input.EmployeeID,
		ContractType: input.ContractType,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Salary:       input.Salary,
		Status:       StatusPendingSignature,
		Note:         strings.TrimSpace(input.Note),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	const attempts = 2
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var existing []string
		existing, err = s.Store.ContractNumbers(ctx)
		if err != nil {
			return Contract{}, err
		}
		c.ContractNumber = NextContractNumber(existing)
		err = s.Store.Insert(ctx, c)
		if !errors.Is(err, ErrNumberTaken) {
			break
		}
		slog.Warn("contract number collision", "contractNumber", c.ContractNumber, "attempt", attempt+1)
	}
	if err != nil {
		return Contract{}, err
	}
	return c.withFlags(now), nil
}

// Get returns the contract with its expiry evaluated against the clock.
func (s *Service) Get(ctx context.Context, id string) (Contract, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	return c.withFlags(s.Clock.Now()), nil
}

func (s *Service) List(ctx context.Context, filter Filter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	res, err := s.Store.List(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	now := s.Clock.Now()
	for i, c := range res.Items {
		c, err = s.refresh(ctx, s.localize(c), now)
		if err != nil {
			return ListResult{}, err
		}
		res.Items[i] = c.withFlags(now)
	}
	return res, nil
}

func (s *Service) Sign(ctx context.Context, id, signer string) (Contract, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	if c.Status != StatusPendingSignature {
		return Contract{}, ErrAlreadySigned.WithState(c.Status)
	}
	now := s.Clock.Now()
	c.Status = StatusActive
	c.SignedDate = &now
	c.SignedBy = strings.TrimSpace(signer)
	c.UpdatedAt = now
	c, _ = EvaluateExpiry(c, now)
	return s.save(ctx, c, StatusPendingSignature, ErrAlreadySigned)
}

// Edit replaces every business field of a contract that is still awaiting signature.
func (s *Service) Edit(ctx context.Context, id string, input Input) (Contract, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	if c.Locked() {
		return Contract{}, ErrContractLocked.WithState(c.Status)
	}
	input = s.normalize(input)
	if input.EmployeeID == "" {
		input.EmployeeID = c.EmployeeID
	}
	if err := validateInput(input); err != nil {
		return Contract{}, err
	}
	if input.EmployeeID != c.EmployeeID {
		if _, err := s.Directory.GetEmployee(ctx, input.EmployeeID); err != nil {
			return Contract{}, err
		}
	}
	c.EmployeeID = input.EmployeeID
	c.ContractType = input.ContractType
	c.StartDate = input.StartDate
	c.EndDate = input.EndDate
	c.Salary = input.Salary
	c.Note = strings.TrimSpace(input.Note)
	c.UpdatedAt = s.Clock.Now()
	return s.save(ctx, c, StatusPendingSignature, ErrContractLocked)
}

func (s *Service) Cancel(ctx context.Context, id string) (Contract, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	if c.Status != StatusPendingSignature && c.Status != StatusActive {
		return Contract{}, ErrNotCancellable.WithState(c.Status)
	}
	from := c.Status
	c.Status = StatusCancelled
	c.UpdatedAt = s.Clock.Now()
	return s.save(ctx, c, from, ErrNotCancellable)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if c.Locked() {
		return ErrContractLocked.WithState(c.Status)
	}
	deleted, err := s.Store.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		current, err := s.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		return ErrContractLocked.WithState(current.Status)
	}
	return nil
}

// ExpireDue expires every active contract whose end date has passed.
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	now := s.Clock.Now()
	return s.Store.ExpireEndedThrough(ctx, LastEndedDay(now), now)
}

// LastEndedDay is the latest calendar end date that lies before now.
func LastEndedDay(now time.Time) time.Time {
	today := clock.Day(now, nil)
	if now.Equal(today) {
		return today.AddDate(0, 0, -1)
	}
	return today
}

// load reads a contract and persists an expiry that became due since the
// last write.
func (s *Service) load(ctx context.Context, id string) (Contract, error) {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	return s.refresh(ctx, s.localize(c), s.Clock.Now())
}

func (s *Service) refresh(ctx context.Context, c Contract, now time.Time) (Contract, error) {
	expired, changed := EvaluateExpiry(c, now)
	if !changed {
		return c, nil
	}
	expired.UpdatedAt = now
	applied, err := s.Store.Update(ctx, expired, StatusActive)
	if err != nil {
		return Contract{}, err
	}
	if applied {
		return expired, nil
	}
	current, err := s.Store.Get(ctx, c.ID)
	if err != nil {
		return Contract{}, err
	}
	return s.localize(current), nil
}

// save writes c conditionally on the status it was read with.
func (s *Service) save(ctx context.Context, c Contract, from string, conflict *apperr.Error) (Contract, error) {
	applied, err := s.Store.Update(ctx, c, from)
	if err != nil {
		return Contract{}, err
	}
	if !applied {
		current, err := s.Store.Get(ctx, c.ID)
		if err != nil {
			return Contract{}, err
		}
		return Contract{}, conflict.WithState(current.Status)
	}
	return c.withFlags(s.Clock.Now()), nil
}

// normalize pins the dates to midnight in the organisation timezone.
func (s *Service) normalize(in Input) Input {
	loc := s.Clock.Now().Location()
	if !in.StartDate.IsZero() {
		in.StartDate = clock.Day(in.StartDate, loc)
	}
	if in.EndDate != nil {
		end := clock.Day(*in.EndDate, loc)
		in.EndDate = &end
	}
	return in
}

// localize re-reads stored calendar dates in the organisation timezone.
func (s *Service) localize(c Contract) Contract {
	loc := s.Clock.Now().Location()
	c.StartDate = sameDate(c.StartDate, loc)
	if c.EndDate != nil {
		end := sameDate(*c.EndDate, loc)
		c.EndDate = &end
	}
	return c
}

func sameDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
