package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the directory view the calculator needs.
type Employee struct {
	Identity   EmployeeIdentity
	Name       string
	Department string
	Position   string
	Email      string
	BaseSalary decimal.Decimal
}

type Result struct {
	EmployeeID        string          `json:"employeeId"`
	EmployeeName      string          `json:"employeeName"`
	Department        string          `json:"department,omitempty"`
	Position          string          `json:"position,omitempty"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	Policy            Policy          `json:"policy"`
	DaysInMonth       int             `json:"daysInMonth"`
	RestDays          int             `json:"restDays"`
	BaseSalary        decimal.Decimal `json:"baseSalary"`
	TotalWorkingDays  int             `json:"totalWorkingDays"`
	ActualWorkingDays int             `json:"actualWorkingDays"`
	PaidLeaveDays     int             `json:"paidLeaveDays"`
	UnpaidLeaveDays   int             `json:"unpaidLeaveDays"`
	PerDaySalary      decimal.Decimal `json:"perDaySalary"`
	Deductions        decimal.Decimal `json:"deductions"`
	FinalSalary       decimal.Decimal `json:"finalSalary"`
}

func (r Result) Period() Period {
	return Period{Year: r.Year, Month: r.Month}
}

// Display returns a copy with the per-day salary at presentation precision.
func (r Result) Display() Result {
	r.PerDaySalary = r.PerDaySalary.Round(2)
	return r
}

type Report struct {
	Period  Period   `json:"period"`
	Policy  Policy   `json:"policy"`
	Results []Result `json:"results"`
}

func (r Report) Display() Report {
	results := make([]Result, len(r.Results))
	for i, res := range r.Results {
		results[i] = res.Display()
	}
	r.Results = results
	return r
}

// Totals sums base, deductions and final salary across the report.
func (r Report) Totals() (base, deductions, final decimal.Decimal) {
	for _, res := range r.Results {
		base = base.Add(res.BaseSalary)
		deductions = deductions.Add(res.Deductions)
		final = final.Add(res.FinalSalary)
	}
	return base, deductions, final
}

// Record is a persisted payroll result.
type Record struct {
	ID          string    `json:"id"`
	Result      Result    `json:"result"`
	GeneratedBy string    `json:"generatedBy,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}
