package employee

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"hrms/internal/domain/payroll"
)

type Employee struct {
	ID           string          `json:"id"`
	EmployeeCode string          `json:"employeeId"`
	LegacyID     string          `json:"legacyId,omitempty"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	Phone        string          `json:"phone"`
	Department   string          `json:"department"`
	Position     string          `json:"position"`
	Salary       decimal.Decimal `json:"salary"`
	JoiningDate  time.Time       `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (e Employee) MarshalJSON() ([]byte, error) {
	type plain Employee
	return json.Marshal(struct {
		plain
		JoiningDate string `json:"joiningDate"`
	}{plain(e), e.JoiningDate.Format("2006-01-02")})
}

// Identity collects every identifier leave and attendance rows may carry.
func (e Employee) Identity() payroll.EmployeeIdentity {
	return payroll.NewEmployeeIdentity(e.ID, e.EmployeeCode, e.LegacyID)
}

func (e Employee) PayrollEmployee() payroll.Employee {
	return payroll.Employee{
		Identity:   e.Identity(),
		Name:       e.Name,
		Department: e.Department,
		Position:   e.Position,
		Email:      e.Email,
		BaseSalary: e.Salary,
	}
}

type CreateInput struct {
	EmployeeCode string          `json:"employeeId" validate:"required,max=64"`
	LegacyID     string          `json:"legacyId" validate:"omitempty,max=64"`
	Name         string          `json:"name" validate:"required,max=200"`
	Email        string          `json:"email" validate:"required,email"`
	Username     string          `json:"username" validate:"required,min=3,max=64"`
	Password     string          `json:"password" validate:"required,min=8"`
	Phone        string          `json:"phone" validate:"omitempty,max=32"`
	Department   string          `json:"department" validate:"required,max=120"`
	Position     string          `json:"position" validate:"required,max=120"`
	Salary       decimal.Decimal `json:"salary"`
	JoiningDate  string          `json:"joiningDate" validate:"required,datetime=2006-01-02"`
}

type UpdateInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Email       string          `json:"email" validate:"required,email"`
	Phone       string          `json:"phone" validate:"omitempty,max=32"`
	Department  string          `json:"department" validate:"required,max=120"`
	Position    string          `json:"position" validate:"required,max=120"`
	Salary      decimal.Decimal `json:"salary"`
	JoiningDate string          `json:"joiningDate" validate:"required,datetime=2006-01-02"`
}

type ListFilter struct {
	Department string
	Search     string
	Limit      int
	Offset     int
}
