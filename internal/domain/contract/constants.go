package contract

const (
	TypeProbation     = "probation"
	TypeFixedTerm     = "fixed_term"
	TypeIndefinite    = "indefinite"
	TypeSeasonal      = "seasonal"
	TypeCollaboration = "collaboration"
)

var Types = []string{TypeProbation, TypeFixedTerm, TypeIndefinite, TypeSeasonal, TypeCollaboration}

const (
	StatusPendingSignature = "pending_signature"
	StatusActive           = "active"
	StatusExpired          = "expired"
	StatusCancelled        = "cancelled"
)

// NumberPrefix starts every generated contract number, e.g. HD001.
const NumberPrefix = "HD"

func ValidType(contractType string) bool {
	for _, t := range Types {
		if t == contractType {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPendingSignature, StatusActive, StatusExpired, StatusCancelled:
		return true
	}
	return false
}
