package payroll

import "github.com/shopspring/decimal"

// SalaryInput holds the figures the calculator works from, in minor units.
// Tax is the caller-supplied amount; the calculator only decides whether it applies.
type SalaryInput struct {
	BaseSalary int64 `json:"baseSalary"`
	Food       int64 `json:"food"`
	Transport  int64 `json:"transport"`
	Phone      int64 `json:"phone"`
	Bonus      int64 `json:"bonus"`
	Tax        int64 `json:"tax"`
}

type Breakdown struct {
	SocialInsurance int64 `json:"socialInsurance"`
	HealthInsurance int64 `json:"healthInsurance"`
	TotalIncome     int64 `json:"totalIncome"`
	TaxableIncome   int64 `json:"taxableIncome"`
	MustPayTax      bool  `json:"mustPayTax"`
	Tax             int64 `json:"tax"`
	TotalDeduction  int64 `json:"totalDeduction"`
	NetSalary       int64 `json:"netSalary"`
}

// Calculate derives insurance, tax liability and net pay. It has no side
// effects and returns the same Breakdown for the same input.
func Calculate(in SalaryInput) (Breakdown, error) {
	for _, amount := range []int64{in.BaseSalary, in.Food, in.Transport, in.Phone, in.Bonus, in.Tax} {
		if amount < 0 {
			return Breakdown{}, ErrNegativeAmount
		}
	}

	var out Breakdown
	out.SocialInsurance = percentOf(in.BaseSalary, SocialInsuranceRate)
	out.HealthInsurance = percentOf(in.BaseSalary, HealthInsuranceRate)
	out.TotalIncome = in.BaseSalary + in.Food + in.Transport + in.Phone + in.Bonus
	out.TaxableIncome = out.TotalIncome - out.SocialInsurance - out.HealthInsurance
	out.MustPayTax = out.TaxableIncome >= TaxThreshold
	if out.MustPayTax {
		out.Tax = in.Tax
	}
	out.TotalDeduction = out.SocialInsurance + out.HealthInsurance + out.Tax
	out.NetSalary = out.TotalIncome - out.TotalDeduction
	return out, nil
}

// percentOf rounds half up to the nearest minor unit.
func percentOf(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}
