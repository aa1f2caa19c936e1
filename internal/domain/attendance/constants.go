package attendance

const (
	StatusPresent      = "present"
	StatusAbsent       = "absent"
	StatusLate         = "late"
	StatusLeftEarly    = "left_early"
	StatusOnLeave      = "on_leave"
	StatusBusinessTrip = "business_trip"
	StatusRemoteWork   = "remote_work"
)

var Statuses = []string{
	StatusPresent,
	StatusAbsent,
	StatusLate,
	StatusLeftEarly,
	StatusOnLeave,
	StatusBusinessTrip,
	StatusRemoteWork,
}

const (
	// Check-in after 08:30 is late; 08:30 itself is on time.
	LateAfterMinutes = 8*60 + 30
	// Check-out before 17:00 is an early leave.
	EarlyLeaveBeforeMinutes = 17 * 60
	StandardWorkHours       = 8
)

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
