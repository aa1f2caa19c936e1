package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextContractNumber returns the number following the numerically highest
// existing one. Numbers without the HD prefix are ignored; gaps are not reused.
func NextContractNumber(existing []string) string {
	highest := 0
	for _, number := range existing {
		digits, ok := strings.CutPrefix(number, NumberPrefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n < 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", NumberPrefix, highest+1)
}

// EvaluateExpiry moves an active contract past its end date to expired. It
// returns the contract unchanged otherwise, and reports whether it changed.
func EvaluateExpiry(c Contract, now time.Time) (Contract, bool) {
	if c.Status == StatusActive && c.PastEnd(now) {
		c.Status = StatusExpired
		return c, true
	}
	return c, false
}

func validateInput(in Input) error {
	if !ValidType(in.ContractType) {
		return ErrInvalidType.WithState(in.ContractType)
	}
	if in.StartDate.IsZero() {
		return ErrStartRequired
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return ErrInvalidDates
	}
	if in.Salary < 0 {
		return ErrNegativeSalary
	}
	return nil
}
