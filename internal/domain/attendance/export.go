package attendance

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

// WriteMonthlyXLSX renders a monthly history as a single-sheet workbook.
func WriteMonthlyXLSX(w io.Writer, employeeName string, history MonthlyHistory) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	title := fmt.Sprintf("%s %02d/%d", employeeName, history.Month, history.Year)
	if err := f.SetSheetRow(exportSheet, "A1", &[]any{title}); err != nil {
		return err
	}
	header := []any{"Date", "Check-in", "Check-out", "Status", "Work hours", "Overtime", "Note"}
	if err := f.SetSheetRow(exportSheet, "A3", &header); err != nil {
		return err
	}
	row := 4
	for _, rec := range history.Records {
		values := []any{
			rec.Date.Format("2006-01-02"),
			optionalTime(rec.CheckIn),
			optionalTime(rec.CheckOut),
			rec.Status,
			rec.WorkHours,
			rec.Overtime,
			rec.Note,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	row++
	stats := history.Summary
	totals := [][]any{
		{"Days worked", stats.DaysWorked},
		{"Late", stats.Late},
		{"Left early", stats.LeftEarly},
		{"Absent", stats.Absent},
		{"Work hours", stats.WorkHours},
		{"Overtime", stats.Overtime},
	}
	for _, line := range totals {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &line); err != nil {
			return err
		}
		row++
	}
	return f.Write(w)
}

func optionalTime(t *TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}
