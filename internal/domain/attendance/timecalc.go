package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeOfDay is a wall-clock hour and minute in the organisation timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return TimeOfDay{}, ErrInvalidTime.WithMessage(fmt.Sprintf("invalid time %q: must be HH:MM", value))
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// ParseOptionalTimeOfDay maps an empty string to nil.
func ParseOptionalTimeOfDay(value string) (*TimeOfDay, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseTimeOfDay(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var (
	sixty       = decimal.NewFromInt(60)
	standardDay = decimal.NewFromInt(StandardWorkHours)
	hoursPlaces = int32(2)
)

// ComputeHours returns work hours and overtime rounded to two decimals.
// A missing time yields zeros, and a check-out before check-in is clamped to
// zero because recorded data may contain entry mistakes.
func ComputeHours(checkIn, checkOut *TimeOfDay) (workHours, overtime float64) {
	if checkIn == nil || checkOut == nil {
		return 0, 0
	}
	diff := checkOut.Minutes() - checkIn.Minutes()
	if diff <= 0 {
		return 0, 0
	}
	hours := decimal.NewFromInt(int64(diff)).Div(sixty).Round(hoursPlaces)
	extra := hours.Sub(standardDay)
	if extra.IsNegative() {
		extra = decimal.Zero
	}
	return hours.InexactFloat64(), extra.Round(hoursPlaces).InexactFloat64()
}

func CheckInStatus(checkIn TimeOfDay) string {
	if checkIn.Minutes() > LateAfterMinutes {
		return StatusLate
	}
	return StatusPresent
}

// CheckOutStatus downgrades Present to LeftEarly; every other status is kept.
func CheckOutStatus(current string, checkOut TimeOfDay) string {
	if current == StatusPresent && checkOut.Minutes() < EarlyLeaveBeforeMinutes {
		return StatusLeftEarly
	}
	return current
}
