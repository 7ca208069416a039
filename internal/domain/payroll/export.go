package payroll

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Payroll"

var reportHeader = []string{
	"Employee", "Base Salary", "Working Days", "Actual Days", "Paid Leaves",
	"Unpaid Leaves", "Sundays", "Per Day Salary", "Deductions", "Final Salary",
}

func reportRow(res Result) []string {
	return []string{
		res.EmployeeName,
		money(res.BaseSalary),
		strconv.Itoa(res.TotalWorkingDays),
		strconv.Itoa(res.ActualWorkingDays),
		strconv.Itoa(res.PaidLeaveDays),
		strconv.Itoa(res.UnpaidLeaveDays),
		strconv.Itoa(res.RestDays),
		res.PerDaySalary.StringFixed(2),
		money(res.Deductions),
		money(res.FinalSalary),
	}
}

// ExportFilename names a report download for the period and format.
func ExportFilename(period Period, format string) string {
	return fmt.Sprintf("payroll-%s.%s", period.String(), format)
}

func WriteReportCSV(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, res := range report.Results {
		if err := writer.Write(reportRow(res)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", res.EmployeeID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteReportXLSX(w io.Writer, report Report) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), reportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := file.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, res := range report.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			res.EmployeeName,
			res.BaseSalary.InexactFloat64(),
			res.TotalWorkingDays,
			res.ActualWorkingDays,
			res.PaidLeaveDays,
			res.UnpaidLeaveDays,
			res.RestDays,
			res.PerDaySalary.Round(2).InexactFloat64(),
			res.Deductions.InexactFloat64(),
			res.FinalSalary.InexactFloat64(),
		}
		if err := file.SetSheetRow(reportSheet, cell, &row); err != nil {
			return fmt.Errorf("write xlsx row for %s: %w", res.EmployeeID, err)
		}
	}
	if err := file.SetColWidth(reportSheet, "A", "A", 28); err != nil {
		return err
	}
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(0)
}
