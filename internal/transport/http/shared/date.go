package shared

import (
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts RFC3339 or YYYY-MM-DD. Date-only values are read in UTC.
func ParseDate(value string) (time.Time, error) {
	return ParseDateIn(value, time.UTC)
}

// ParseDateIn accepts RFC3339 or YYYY-MM-DD; date-only values are midnight in loc.
func ParseDateIn(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(loc), nil
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// Period reads month and year query values, defaulting to now's calendar month.
func (v *Validator) Period(monthRaw, yearRaw string, now time.Time) (year, month int) {
	year, month = now.Year(), int(now.Month())
	if monthRaw != "" {
		parsed, err := strconv.Atoi(monthRaw)
		if err != nil || parsed < 1 || parsed > 12 {
			v.Add("month", "must be between 1 and 12")
		} else {
			month = parsed
		}
	}
	if yearRaw != "" {
		parsed, err := strconv.Atoi(yearRaw)
		if err != nil || parsed < 1900 || parsed > 9999 {
			v.Add("year", "must be a four digit year")
		} else {
			year = parsed
		}
	}
	return year, month
}
