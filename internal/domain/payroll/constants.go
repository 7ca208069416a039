package payroll

const (
	// PolicySixDayWeek treats every day except Sunday as a working day.
	PolicySixDayWeek Policy = "six_day_week"
	// PolicyFlat30 assumes a 30-day month regardless of the calendar.
	PolicyFlat30 Policy = "flat_30"

	flatMonthDays = 30

	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"

	JobPayrollClose = "payroll_close"

	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
	PayslipFormatTXT = "txt"
	PayslipFormatPDF = "pdf"

	dateLayout = "2006-01-02"
)
