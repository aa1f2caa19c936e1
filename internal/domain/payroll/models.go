package payroll

import "time"

type Allowances struct {
	Food      int64 `json:"food"`
	Transport int64 `json:"transport"`
	Phone     int64 `json:"phone"`
	Housing   int64 `json:"housing"`
	Other     int64 `json:"other"`
}

func (a Allowances) Total() int64 {
	return a.Food + a.Transport + a.Phone + a.Housing + a.Other
}

type Deductions struct {
	SocialInsurance       int64 `json:"socialInsurance"`
	HealthInsurance       int64 `json:"healthInsurance"`
	UnemploymentInsurance int64 `json:"unemploymentInsurance"`
	Tax                   int64 `json:"tax"`
	Other                 int64 `json:"other"`
}

func (d Deductions) Total() int64 {
	return d.SocialInsurance + d.HealthInsurance + d.UnemploymentInsurance + d.Tax + d.Other
}

type Record struct {
	ID                string     `json:"id"`
	EmployeeID        string     `json:"employeeId"`
	Month             int        `json:"month"`
	Year              int        `json:"year"`
	BaseSalary        int64      `json:"baseSalary"`
	Allowances        Allowances `json:"allowances"`
	Bonus             int64      `json:"bonus"`
	BonusNote         string     `json:"bonusNote,omitempty"`
	Deductions        Deductions `json:"deductions"`
	OvertimeHours     float64    `json:"overtimeHours"`
	OvertimePay       int64      `json:"overtimePay"`
	WorkingDays       int        `json:"workingDays"`
	ActualWorkingDays float64    `json:"actualWorkingDays"`
	LeaveDays         int        `json:"leaveDays"`
	TotalAllowance    int64      `json:"totalAllowance"`
	TotalDeduction    int64      `json:"totalDeduction"`
	NetSalary         int64      `json:"netSalary"`
	Status            string     `json:"status"`
	ApprovedBy        string     `json:"approvedBy,omitempty"`
	PaidDate          *time.Time `json:"paidDate,omitempty"`
	Note              string     `json:"note,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ComputeTotals derives the totals from the component fields.
func (r *Record) ComputeTotals() {
	r.TotalAllowance = r.Allowances.Total()
	r.TotalDeduction = r.Deductions.Total()
	r.NetSalary = r.BaseSalary + r.TotalAllowance + r.Bonus + r.OvertimePay - r.TotalDeduction
}

// CheckTotals reports ErrTotalsMismatch when stored totals drifted from the components.
func (r Record) CheckTotals() error {
	expected := r
	expected.ComputeTotals()
	if expected.TotalAllowance != r.TotalAllowance || expected.TotalDeduction != r.TotalDeduction || expected.NetSalary != r.NetSalary {
		return ErrTotalsMismatch
	}
	return nil
}

// RecordInput is the editable part of a salary record. Nil pointers fall back
// to the employee's base salary or the month's attendance.
type RecordInput struct {
	EmployeeID            string
	Month                 int
	Year                  int
	BaseSalary            *int64
	Allowances            Allowances
	Bonus                 int64
	BonusNote             string
	Tax                   int64
	UnemploymentInsurance int64
	OtherDeduction        int64
	OvertimeHours         *float64
	OvertimePay           int64
	WorkingDays           int
	ActualWorkingDays     *float64
	LeaveDays             int
	Note                  string
}

// RecordPatch is a partial edit of a stored record. Nil fields keep the
// stored values.
type RecordPatch struct {
	BaseSalary            *int64
	Allowances            *Allowances
	Bonus                 *int64
	BonusNote             *string
	Tax                   *int64
	UnemploymentInsurance *int64
	OtherDeduction        *int64
	OvertimeHours         *float64
	OvertimePay           *int64
	WorkingDays           *int
	ActualWorkingDays     *float64
	LeaveDays             *int
	Note                  *string
}

// Merge returns the input that reproduces rec with the patch laid over it.
func (p RecordPatch) Merge(rec Record) RecordInput {
	base, hours, days := rec.BaseSalary, rec.OvertimeHours, rec.ActualWorkingDays
	in := RecordInput{
		EmployeeID:            rec.EmployeeID,
		Month:                 rec.Month,
		Year:                  rec.Year,
		BaseSalary:            &base,
		Allowances:            rec.Allowances,
		Bonus:                 rec.Bonus,
		BonusNote:             rec.BonusNote,
		Tax:                   rec.Deductions.Tax,
		UnemploymentInsurance: rec.Deductions.UnemploymentInsurance,
		OtherDeduction:        rec.Deductions.Other,
		OvertimeHours:         &hours,
		OvertimePay:           rec.OvertimePay,
		WorkingDays:           rec.WorkingDays,
		ActualWorkingDays:     &days,
		LeaveDays:             rec.LeaveDays,
		Note:                  rec.Note,
	}
	if p.BaseSalary != nil {
		in.BaseSalary = p.BaseSalary
	}
	if p.Allowances != nil {
		in.Allowances = *p.Allowances
	}
	if p.Bonus != nil {
		in.Bonus = *p.Bonus
	}
	if p.BonusNote != nil {
		in.BonusNote = *p.BonusNote
	}
	if p.Tax != nil {
		in.Tax = *p.Tax
	}
	if p.UnemploymentInsurance != nil {
		in.UnemploymentInsurance = *p.UnemploymentInsurance
	}
	if p.OtherDeduction != nil {
		in.OtherDeduction = *p.OtherDeduction
	}
	if p.OvertimeHours != nil {
		in.OvertimeHours = p.OvertimeHours
	}
	if p.OvertimePay != nil {
		in.OvertimePay = *p.OvertimePay
	}
	if p.WorkingDays != nil {
		in.WorkingDays = *p.WorkingDays
	}
	if p.ActualWorkingDays != nil {
		in.ActualWorkingDays = p.ActualWorkingDays
	}
	if p.LeaveDays != nil {
		in.LeaveDays = *p.LeaveDays
	}
	if p.Note != nil {
		in.Note = *p.Note
	}
	return in
}

type Filter struct {
	EmployeeID string
	Month      int
	Year       int
	Status     string
	Limit      int
	Offset     int
}

type ListResult struct {
	Items []Record `json:"items"`
	Total int      `json:"total"`
}
