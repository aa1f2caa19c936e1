package contract

import "hrms/internal/domain/apperr"

var (
	ErrInvalidType      = apperr.Validation("invalid_contract_type", "unknown contract type")
	ErrInvalidDates     = apperr.Validation("invalid_contract_dates", "end date must not be before start date")
	ErrStartRequired    = apperr.Validation("start_date_required", "start date is required")
	ErrNegativeSalary   = apperr.Validation("negative_salary", "salary must not be negative")
	ErrContractNotFound = apperr.NotFound("contract_not_found", "contract not found")
	ErrContractLocked   = apperr.Conflict("contract_locked", "contract is locked and cannot be edited")
	ErrAlreadySigned    = apperr.Conflict("contract_already_signed", "contract is not awaiting signature")
	ErrNotCancellable   = apperr.Conflict("contract_not_cancellable", "contract can no longer be cancelled")
	ErrNumberTaken      = apperr.Conflict("contract_number_taken", "contract number already in use")
)
