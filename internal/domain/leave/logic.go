package leave

import (
	"math"
	"time"

	"hrms/internal/platform/clock"
)

// CalculateDays returns the inclusive calendar-day count between start and end.
// Both dates are truncated to midnight in loc first.
func CalculateDays(start, end time.Time, loc *time.Location) (int, error) {
	from := clock.Day(start, loc)
	to := clock.Day(end, loc)
	if to.Before(from) {
		return 0, ErrInvalidRange
	}
	return int(math.Ceil(to.Sub(from).Hours()/24)) + 1, nil
}
