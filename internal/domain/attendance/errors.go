package attendance

import "hrms/internal/domain/apperr"

var (
	ErrAlreadyCheckedIn  = apperr.Conflict("already_checked_in", "already checked in today")
	ErrNotCheckedIn      = apperr.Conflict("not_checked_in", "not checked in yet")
	ErrAlreadyCheckedOut = apperr.Conflict("already_checked_out", "already checked out today")
	ErrRecordNotFound    = apperr.NotFound("attendance_not_found", "attendance record not found")
	ErrInvalidTime       = apperr.Validation("invalid_time", "time must be in HH:MM format")
	ErrInvalidStatus     = apperr.Validation("invalid_status", "unknown attendance status")
	ErrInvalidPeriod     = apperr.Validation("invalid_period", "month must be between 1 and 12")
	ErrEmployeeInactive  = apperr.Conflict("employee_inactive", "employee is no longer working")
)
