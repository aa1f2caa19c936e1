package leave

import "hrms/internal/domain/apperr"

var (
	ErrInvalidRange     = apperr.Validation("invalid_date_range", "end date before start date")
	ErrReasonRequired   = apperr.Validation("reason_required", "reason is required")
	ErrRejectReason     = apperr.Validation("reject_reason_required", "reject reason is required")
	ErrInvalidType      = apperr.Validation("invalid_leave_type", "unknown leave type")
	ErrEmployeeRequired = apperr.Validation("employee_required", "account is not linked to an employee")
	ErrRequestNotFound  = apperr.NotFound("leave_not_found", "leave request not found")
	ErrAlreadyProcessed = apperr.Conflict("already_processed", "leave request already processed")
	ErrNotOwner         = apperr.Forbidden("not_owner", "leave request belongs to another employee")
)
