package clock

import (
	"time"
	_ "time/tzdata"
)

// DefaultZone is the organisation timezone of the reference deployment.
const DefaultZone = "Asia/Ho_Chi_Minh"

type Clock interface {
	Now() time.Time
}

type System struct {
	Location *time.Location
}

func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = LoadLocation(DefaultZone)
	}
	return System{Location: loc}
}

func (s System) Now() time.Time {
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant. Tests move it with Set.
type Fixed struct {
	At time.Time
}

func (f *Fixed) Now() time.Time {
	return f.At
}

func (f *Fixed) Set(at time.Time) {
	f.At = at
}

// LoadLocation resolves name, falling back to a fixed UTC+7 zone.
func LoadLocation(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone("UTC+7", 7*60*60)
}

// Day truncates t to midnight of its calendar date in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
