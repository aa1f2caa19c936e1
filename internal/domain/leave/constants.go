package leave

const (
	TypeAnnual      = "annual"
	TypeSick        = "sick"
	TypeUnpaid      = "unpaid"
	TypeWedding     = "wedding"
	TypeBereavement = "bereavement"
	TypeMaternity   = "maternity"
	TypeOther       = "other"
)

var Types = []string{TypeAnnual, TypeSick, TypeUnpaid, TypeWedding, TypeBereavement, TypeMaternity, TypeOther}

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

func ValidType(leaveType string) bool {
	for _, t := range Types {
		if t == leaveType {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
