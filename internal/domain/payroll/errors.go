package payroll

import "hrms/internal/domain/apperr"

var (
	ErrNegativeAmount  = apperr.Validation("negative_amount", "monetary amounts must not be negative")
	ErrInvalidPeriod   = apperr.Validation("invalid_period", "month must be between 1 and 12 and year must be set")
	ErrRecordNotFound  = apperr.NotFound("salary_not_found", "salary record not found")
	ErrDuplicatePeriod = apperr.Conflict("salary_exists", "salary record already exists for this employee and period")
	ErrRecordPaid      = apperr.Conflict("salary_paid", "salary record is already paid")
	ErrNotPending      = apperr.Conflict("salary_not_pending", "salary record is not pending approval")
	ErrNotApproved     = apperr.Conflict("salary_not_approved", "salary record must be approved before payment")
	ErrRecordChanged   = apperr.Conflict("salary_changed", "salary record changed while it was being edited")
	ErrTotalsMismatch  = apperr.Invariant("salary_totals_mismatch", "salary totals do not match their components")
)
