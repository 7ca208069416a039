package payrollhandler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/payroll"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	Policy() payroll.Policy
	Report(ctx context.Context, period payroll.Period) (payroll.Report, error)
	EmployeeResult(ctx context.Context, employeeID string, period payroll.Period) (payroll.Result, error)
	ResolveIdentity(ctx context.Context, ref string) (payroll.EmployeeIdentity, error)
	SaveRecords(ctx context.Context, period payroll.Period, generatedBy string) ([]payroll.Record, error)
	ListRecords(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Record, int, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
	now     func() time.Time
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms, now: time.Now}
}

type recordsRequest struct {
	Year  int `json:"year" validate:"required,min=1,max=9999"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollSelf, h.Perms)).Get("/policy", h.handlePolicy)
		r.With(middleware.RequirePermission(auth.PermPayrollReport, h.Perms)).Get("/report", h.handleReport)
		r.With(middleware.RequirePermission(auth.PermPayrollReport, h.Perms)).Get("/report/export", h.handleExport)
		r.With(middleware.RequirePermission(auth.PermPayrollSelf, h.Perms)).Get("/me", h.handleMine)
		r.With(middleware.RequirePermission(auth.PermPayrollSelf, h.Perms)).Get("/payslips/{employeeID}", h.handlePayslip)
		r.With(middleware.RequirePermission(auth.PermPayrollRecord, h.Perms)).Post("/records", h.handleSaveRecords)
		r.With(middleware.RequirePermission(auth.PermPayrollSelf, h.Perms)).Get("/records", h.handleListRecords)
	})
}

// period reads year and month from the query, defaulting to the current month.
func (h *Handler) period(w http.ResponseWriter, r *http.Request) (payroll.Period, bool) {
	current := payroll.PeriodOf(h.now())
	query := r.URL.Query()
	v := shared.NewValidator()
	year := intParam(v, "year", query.Get("year"), current.Year)
	month := intParam(v, "month", query.Get("month"), current.Month)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return payroll.Period{}, false
	}
	period, err := payroll.NewPeriod(year, month)
	if err != nil {
		writeError(w, r, err)
		return payroll.Period{}, false
	}
	return period, true
}

func intParam(v *shared.Validator, field, raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		v.Add(field, "must be an integer")
		return fallback
	}
	return value
}

func (h *Handler) handlePolicy(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"policy": string(h.Service.Policy())}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	report, err := h.Service.Report(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	base, deductions, final := report.Totals()
	api.Success(w, map[string]any{
		"period":  period.String(),
		"label":   period.Label(),
		"policy":  report.Policy,
		"results": report.Display().Results,
		"totals": map[string]any{
			"baseSalary":  base,
			"deductions":  deductions,
			"finalSalary": final,
			"employees":   len(report.Results),
		},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = payroll.ExportFormatCSV
	}
	var write func(io.Writer, payroll.Report) error
	var contentType string
	switch format {
	case payroll.ExportFormatCSV:
		write = payroll.WriteReportCSV
		contentType = "text/csv"
	case payroll.ExportFormatXLSX:
		write = payroll.WriteReportXLSX
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		writeError(w, r, fmt.Errorf("%w: %s", payroll.ErrUnsupportedFormat, format))
		return
	}

	report, err := h.Service.Report(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := write(&buf, report); err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, contentType, payroll.ExportFilename(period, format), buf.Bytes())
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusNotFound, "employee_not_linked", "user is not linked to an employee", middleware.GetRequestID(r.Context()))
		return
	}
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	res, err := h.Service.EmployeeResult(r.Context(), user.EmployeeID, period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, res.Display(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = payroll.PayslipFormatTXT
	}
	if format != payroll.PayslipFormatTXT && format != payroll.PayslipFormatPDF {
		writeError(w, r, fmt.Errorf("%w: %s", payroll.ErrUnsupportedFormat, format))
		return
	}

	ref := chi.URLParam(r, "employeeID")
	if !user.IsAdmin() {
		own, ok := h.ownIdentity(w, r, user)
		if !ok {
			return
		}
		if !own.Matches(ref) {
			api.Fail(w, http.StatusForbidden, "forbidden", "employees may only download their own payslip", middleware.GetRequestID(r.Context()))
			return
		}
		ref = own.PrimaryID
	}

	res, err := h.Service.EmployeeResult(r.Context(), ref, period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	contentType := "text/plain; charset=utf-8"
	if format == payroll.PayslipFormatPDF {
		contentType = "application/pdf"
		err = payroll.WritePayslipPDF(&buf, res)
	} else {
		err = payroll.WritePayslipText(&buf, res)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	attachment(w, contentType, payroll.PayslipFilename(res, format), buf.Bytes())
}

// ownIdentity resolves the caller's linked employee. An unlinked caller owns
// no payslips and gets 403.
func (h *Handler) ownIdentity(w http.ResponseWriter, r *http.Request, user auth.UserContext) (payroll.EmployeeIdentity, bool) {
	if user.EmployeeID != "" {
		own, err := h.Service.ResolveIdentity(r.Context(), user.EmployeeID)
		if err == nil {
			return own, true
		}
		if !errors.Is(err, payroll.ErrEmployeeNotFound) {
			writeError(w, r, err)
			return payroll.EmployeeIdentity{}, false
		}
	}
	api.Fail(w, http.StatusForbidden, "forbidden", "employees may only download their own payslip", middleware.GetRequestID(r.Context()))
	return payroll.EmployeeIdentity{}, false
}

func (h *Handler) handleSaveRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload recordsRequest
	if !shared.BindJSON(w, r, &payload) {
		return
	}
	period, err := payroll.NewPeriod(payload.Year, payload.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := h.Service.SaveRecords(r.Context(), period, user.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.Entry{
		ActorID:    user.UserID,
		Action:     audit.ActionPayrollRecords,
		EntityType: "payroll_period",
		EntityID:   period.String(),
		After:      map[string]any{"count": len(records), "policy": h.Service.Policy()},
	})
	api.Created(w, map[string]any{"period": period.String(), "count": len(records), "records": displayRecords(records)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	query := r.URL.Query()
	v := shared.NewValidator()
	filter := payroll.RecordFilter{
		Year:  intParam(v, "year", query.Get("year"), 0),
		Month: intParam(v, "month", query.Get("month"), 0),
	}
	if filter.Month < 0 || filter.Month > 12 {
		v.Add("month", "must be between 1 and 12")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if user.IsAdmin() {
		if ref := strings.TrimSpace(query.Get("employeeId")); ref != "" {
			filter.EmployeeIDs = []string{ref}
		}
	} else {
		if user.EmployeeID == "" {
			api.Fail(w, http.StatusNotFound, "employee_not_linked", "user is not linked to an employee", middleware.GetRequestID(r.Context()))
			return
		}
		filter.EmployeeIDs = []string{user.EmployeeID}
	}
	page := shared.ParsePagination(r, 50, 200)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	records, total, err := h.Service.ListRecords(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.List(w, displayRecords(records), api.ListMeta{Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func displayRecords(records []payroll.Record) []payroll.Record {
	out := make([]payroll.Record, len(records))
	for i, rec := range records {
		rec.Result = rec.Result.Display()
		out[i] = rec
	}
	return out
}

func attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("write attachment failed", "filename", filename, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
	case errors.Is(err, payroll.ErrUnsupportedFormat):
		api.Fail(w, http.StatusBadRequest, "unsupported_format", err.Error(), requestID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case payroll.IsInputError(err):
		api.Fail(w, http.StatusUnprocessableEntity, "payroll_input_invalid", err.Error(), requestID)
	case errors.Is(err, payroll.ErrRecordsUnavailable):
		api.Fail(w, http.StatusServiceUnavailable, "records_unavailable", err.Error(), requestID)
	default:
		slog.Error("payroll request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "payroll request failed", requestID)
	}
}
