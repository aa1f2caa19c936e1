package leave

import (
	"context"
	"strings"

	"github.com/google/uuid"

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

func (s *Service) CreateRequest(ctx context.Context, input CreateInput) (Request, error) {
	if input.EmployeeID == "" {
		return Request{}, ErrEmployeeRequired
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return Request{}, ErrReasonRequired
	}
	if !ValidType(input.LeaveType) {
		return Request{}, ErrInvalidType.WithState(input.LeaveType)
	}
	now := s.Clock.Now()
	loc := now.Location()
	days, err := CalculateDays(input.StartDate, input.EndDate, loc)
	if err != nil {
		return Request{}, err
	}
	if _, err := s.Directory.GetEmployee(ctx, input.EmployeeID); err != nil {
		return Request{}, err
	}

	req := Request{
		ID:         uuid.NewString(),
		EmployeeID: input.EmployeeID,
		LeaveType:  input.LeaveType,
		StartDate:  clock.Day(input.StartDate, loc),
		EndDate:    clock.Day(input.EndDate, loc),
		TotalDays:  days,
		Reason:     reason,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Insert(ctx, req); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Service) Get(ctx context.Context, id string) (Request, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Approve(ctx context.Context, id, approverID string) (Request, error) {
	return s.transition(ctx, id, nil, func(req *Request) {
		now := s.Clock.Now()
		req.Status = StatusApproved
		req.ApprovedBy = approverID
		req.ApprovedAt = &now
		req.UpdatedAt = now
	})
}

func (s *Service) Reject(ctx context.Context, id, approverID, reason string) (Request, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Request{}, ErrRejectReason
	}
	return s.transition(ctx, id, nil, func(req *Request) {
		now := s.Clock.Now()
		req.Status = StatusRejected
		req.ApprovedBy = approverID
		req.ApprovedAt = &now
		req.RejectReason = reason
		req.UpdatedAt = now
	})
}

func (s *Service) Cancel(ctx context.Context, id, employeeID string) (Request, error) {
	return s.transition(ctx, id, ownedBy(employeeID), func(req *Request) {
		req.Status = StatusCancelled
		req.UpdatedAt = s.Clock.Now()
	})
}

// SelfEdit lets the owning employee change a pending request.
func (s *Service) SelfEdit(ctx context.Context, id, employeeID string, input EditInput) (Request, error) {
	return s.edit(ctx, id, ownedBy(employeeID), input)
}

// Edit is the manager/admin variant of SelfEdit without the ownership check.
func (s *Service) Edit(ctx context.Context, id string, input EditInput) (Request, error) {
	return s.edit(ctx, id, nil, input)
}

// DeleteOwn removes a pending request owned by employeeID.
func (s *Service) DeleteOwn(ctx context.Context, id, employeeID string) error {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := ownedBy(employeeID)(req); err != nil {
		return err
	}
	if req.Status != StatusPending {
		return ErrAlreadyProcessed.WithState(req.Status)
	}
	return s.deletePending(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != StatusPending {
		return ErrAlreadyProcessed.WithState(req.Status)
	}
	return s.deletePending(ctx, id)
}

func (s *Service) deletePending(ctx context.Context, id string) error {
	deleted, err := s.Store.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return s.staleState(ctx, id)
	}
	return nil
}

// transition applies a status change that requires the request to be pending.
// The store write is conditional on the pending status, so concurrent callers
// cannot both succeed.
func (s *Service) transition(ctx context.Context, id string, guard func(Request) error, apply func(*Request)) (Request, error) {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if guard != nil {
		if err := guard(req); err != nil {
			return Request{}, err
		}
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed.WithState(req.Status)
	}
	apply(&req)
	applied, err := s.Store.Transition(ctx, req, StatusPending)
	if err != nil {
		return Request{}, err
	}
	if !applied {
		return Request{}, s.staleState(ctx, id)
	}
	return req, nil
}

func (s *Service) edit(ctx context.Context, id string, guard func(Request) error, input EditInput) (Request, error) {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if guard != nil {
		if err := guard(req); err != nil {
			return Request{}, err
		}
	}
	if req.Status != StatusPending {
		return Request{}, ErrAlreadyProcessed.WithState(req.Status)
	}

	if input.LeaveType != nil {
		if !ValidType(*input.LeaveType) {
			return Request{}, ErrInvalidType.WithState(*input.LeaveType)
		}
		req.LeaveType = *input.LeaveType
	}
	if input.Reason != nil {
		reason := strings.TrimSpace(*input.Reason)
		if reason == "" {
			return Request{}, ErrReasonRequired
		}
		req.Reason = reason
	}
	now := s.Clock.Now()
	loc := now.Location()
	if input.StartDate != nil {
		req.StartDate = clock.Day(*input.StartDate, loc)
	}
	if input.EndDate != nil {
		req.EndDate = clock.Day(*input.EndDate, loc)
	}
	days, err := CalculateDays(req.StartDate, req.EndDate, loc)
	if err != nil {
		return Request{}, err
	}
	req.TotalDays = days
	req.UpdatedAt = now

	applied, err := s.Store.UpdatePending(ctx, req)
	if err != nil {
		return Request{}, err
	}
	if !applied {
		return Request{}, s.staleState(ctx, id)
	}
	return req, nil
}

func ownedBy(employeeID string) func(Request) error {
	return func(req Request) error {
		if req.EmployeeID != employeeID {
			return ErrNotOwner
		}
		return nil
	}
}

// staleState explains a conditional write that matched no row.
func (s *Service) staleState(ctx context.Context, id string) error {
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	return ErrAlreadyProcessed.WithState(current.Status)
}
