package payroll

import "github.com/shopspring/decimal"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusPaid     = "paid"
)

// TaxThreshold is the taxable income, in minor currency units, from which
// personal income tax applies.
const TaxThreshold int64 = 11_000_000

var (
	SocialInsuranceRate = decimal.RequireFromString("0.08")
	HealthInsuranceRate = decimal.RequireFromString("0.015")
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusPaid:
		return true
	}
	return false
}
