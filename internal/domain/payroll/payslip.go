package payroll

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const payslipRule = "----------------------------------------"

type payslipLine struct {
	label string
	value string
}

type payslipSection struct {
	title string
	lines []payslipLine
}

func payslipSections(res Result) []payslipSection {
	attendance := []payslipLine{
		{"Total Working Days", fmt.Sprint(res.TotalWorkingDays)},
		{"Actual Working Days", fmt.Sprint(res.ActualWorkingDays)},
		{"Paid Leave Days", fmt.Sprint(res.PaidLeaveDays)},
		{"Unpaid Leave Days", fmt.Sprint(res.UnpaidLeaveDays)},
	}
	if res.Policy == PolicySixDayWeek {
		attendance = append(attendance, payslipLine{"Sundays", fmt.Sprint(res.RestDays)})
	}
	return []payslipSection{
		{"EMPLOYEE DETAILS", []payslipLine{
			{"Name", res.EmployeeName},
			{"Employee ID", res.EmployeeID},
			{"Department", orDash(res.Department)},
			{"Position", orDash(res.Position)},
		}},
		{"EARNINGS", []payslipLine{
			{"Base Salary", money(res.BaseSalary)},
			{"Per Day Salary", res.PerDaySalary.StringFixed(2)},
		}},
		{"ATTENDANCE SUMMARY", attendance},
		{"DEDUCTIONS", []payslipLine{
			{fmt.Sprintf("Unpaid Leave (%d days)", res.UnpaidLeaveDays), money(res.Deductions)},
		}},
		{"NET SALARY", []payslipLine{
			{"Final Salary", money(res.FinalSalary)},
		}},
	}
}

func payslipNotes(res Result) []string {
	notes := []string{"Paid leave does not reduce salary."}
	switch res.Policy {
	case PolicySixDayWeek:
		notes = append(notes, "Working days exclude Sundays.")
	case PolicyFlat30:
		notes = append(notes, "Working days use a flat 30-day month.")
	}
	return notes
}

func WritePayslipText(w io.Writer, res Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "PAYSLIP\nPeriod: %s\n\n", res.Period().Label())
	for _, section := range payslipSections(res) {
		fmt.Fprintf(&b, "%s\n%s\n", section.title, payslipRule)
		for _, line := range section.lines {
			fmt.Fprintf(&b, "%-24s %s\n", line.label+":", line.value)
		}
		b.WriteString("\n")
	}
	b.WriteString("NOTES\n" + payslipRule + "\n")
	for _, note := range payslipNotes(res) {
		fmt.Fprintf(&b, "- %s\n", note)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func WritePayslipPDF(w io.Writer, res Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, "Period: "+res.Period().Label())
	pdf.Ln(10)

	for _, section := range payslipSections(res) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, section.title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range section.lines {
			pdf.Cell(70, 7, line.label)
			pdf.Cell(0, 7, line.value)
			pdf.Ln(7)
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "I", 9)
	for _, note := range payslipNotes(res) {
		pdf.Cell(0, 6, note)
		pdf.Ln(6)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render payslip pdf: %w", err)
	}
	return pdf.Output(w)
}

func PayslipFilename(res Result, format string) string {
	return fmt.Sprintf("payslip-%s-%s.%s", res.EmployeeID, res.Period().String(), format)
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
