package payroll

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/core"
)

func formatMoney(amount int64) string {
	return decimal.NewFromInt(amount).StringFixedBank(0)
}

// WritePayslipPDF renders one salary record as a single-page payslip.
func WritePayslipPDF(w io.Writer, emp core.Employee, rec Record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", emp.FullName, emp.Code))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Position: %s", emp.PositionName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %02d/%d", rec.Month, rec.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Working days: %d (actual %.1f, leave %d)", rec.WorkingDays, rec.ActualWorkingDays, rec.LeaveDays))
	pdf.Ln(10)

	lines := []struct {
		label  string
		amount int64
	}{
		{"Base salary", rec.BaseSalary},
		{"Allowances", rec.TotalAllowance},
		{"Bonus", rec.Bonus},
		{fmt.Sprintf("Overtime (%.2f h)", rec.OvertimeHours), rec.OvertimePay},
		{"Social insurance", -rec.Deductions.SocialInsurance},
		{"Health insurance", -rec.Deductions.HealthInsurance},
		{"Unemployment insurance", -rec.Deductions.UnemploymentInsurance},
		{"Personal income tax", -rec.Deductions.Tax},
		{"Other deductions", -rec.Deductions.Other},
	}
	for _, line := range lines {
		pdf.Cell(100, 8, line.label)
		pdf.CellFormat(60, 8, formatMoney(line.amount), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(100, 8, "Net salary")
	pdf.CellFormat(60, 8, formatMoney(rec.NetSalary), "", 0, "R", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", rec.Status))

	return pdf.Output(w)
}
