package attendance

import (
	"encoding/json"
	"time"
)

const DefaultLocation = "Office"

type Break struct {
	ID              string     `json:"id"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
}

func (b Break) Active() bool {
	return b.EndTime == nil
}

type Record struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName"`
	Date         time.Time  `json:"-"`
	LoginTime    time.Time  `json:"loginTime"`
	LogoutTime   *time.Time `json:"logoutTime,omitempty"`
	TotalHours   float64    `json:"totalHours"`
	IsLate       bool       `json:"isLate"`
	Location     string     `json:"location"`
	Breaks       []Break    `json:"breaks"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	breaks := r.Breaks
	if breaks == nil {
		breaks = []Break{}
	}
	p := plain(r)
	p.Breaks = breaks
	return json.Marshal(struct {
		plain
		Date         string `json:"date"`
		BreakMinutes int    `json:"totalBreakMinutes"`
		CheckedOut   bool   `json:"checkedOut"`
	}{p, r.Date.Format("2006-01-02"), r.BreakMinutes(), r.LogoutTime != nil})
}

func (r Record) ActiveBreak() (Break, bool) {
	for _, b := range r.Breaks {
		if b.Active() {
			return b, true
		}
	}
	return Break{}, false
}

// BreakMinutes sums the durations of finished breaks.
func (r Record) BreakMinutes() int {
	total := 0
	for _, b := range r.Breaks {
		if b.DurationMinutes != nil {
			total += *b.DurationMinutes
		}
	}
	return total
}

type CheckInInput struct {
	Location string `json:"location" validate:"omitempty,max=120"`
}

// ManualInput is an admin-entered record. Times are HH:MM on Date.
type ManualInput struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	LoginTime  string `json:"loginTime" validate:"required,datetime=15:04"`
	LogoutTime string `json:"logoutTime" validate:"omitempty,datetime=15:04"`
	Location   string `json:"location" validate:"omitempty,max=120"`
	IsLate     *bool  `json:"isLate"`
}

type UpdateInput struct {
	LoginTime  string `json:"loginTime" validate:"omitempty,datetime=15:04"`
	LogoutTime string `json:"logoutTime" validate:"omitempty,datetime=15:04"`
	Location   string `json:"location" validate:"omitempty,max=120"`
	IsLate     *bool  `json:"isLate"`
}

type ListFilter struct {
	EmployeeIDs []string
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

type Stats struct {
	PresentDays  int     `json:"presentDays"`
	LateDays     int     `json:"lateDays"`
	TotalHours   float64 `json:"totalHours"`
	AverageHours float64 `json:"averageHours"`
}
