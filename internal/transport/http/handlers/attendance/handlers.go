package attendancehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, caller auth.UserContext, employeeRef string, filter attendance.ListFilter) ([]attendance.Record, int, error)
	Stats(ctx context.Context, caller auth.UserContext, employeeRef string, filter attendance.ListFilter) (attendance.Stats, error)
	CheckIn(ctx context.Context, caller auth.UserContext, in attendance.CheckInInput) (attendance.Record, error)
	CheckOut(ctx context.Context, caller auth.UserContext) (attendance.Record, error)
	StartBreak(ctx context.Context, caller auth.UserContext, id string) (attendance.Record, error)
	EndBreak(ctx context.Context, caller auth.UserContext, id string) (attendance.Record, error)
	CreateManual(ctx context.Context, caller auth.UserContext, in attendance.ManualInput) (attendance.Record, error)
	Update(ctx context.Context, caller auth.UserContext, id string, in attendance.UpdateInput) (attendance.Record, error)
	Delete(ctx context.Context, caller auth.UserContext, id string) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.Auditor
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/stats", h.handleStats)
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf, h.Perms)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf, h.Perms)).Post("/check-out", h.handleCheckOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceEdit, h.Perms)).Post("/manual", h.handleManual)
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf, h.Perms)).Post("/{recordID}/breaks", h.handleStartBreak)
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf, h.Perms)).Patch("/{recordID}/breaks", h.handleEndBreak)
		r.With(middleware.RequirePermission(auth.PermAttendanceEdit, h.Perms)).Put("/{recordID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermAttendanceEdit, h.Perms)).Delete("/{recordID}", h.handleDelete)
	})
}

// parseFilter reads employeeId, from and to. It writes the validation
// response itself when the query is malformed.
func parseFilter(w http.ResponseWriter, r *http.Request) (string, attendance.ListFilter, bool) {
	query := r.URL.Query()
	v := shared.NewValidator()
	var from, to time.Time
	if raw := query.Get("from"); raw != "" {
		from, _ = v.Date("from", raw)
	}
	if raw := query.Get("to"); raw != "" {
		to, _ = v.Date("to", raw)
	}
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return "", attendance.ListFilter{}, false
	}
	page := shared.ParsePagination(r, 50, 200)
	return strings.TrimSpace(query.Get("employeeId")), attendance.ListFilter{
		From:   from,
		To:     to,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	ref, filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	items, total, err := h.Service.List(r.Context(), user, ref, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []attendance.Record{}
	}
	api.List(w, items, api.ListMeta{Total: total, Limit: filter.Limit, Offset: filter.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	ref, filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	stats, err := h.Service.Stats(r.Context(), user, ref, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload attendance.CheckInInput
	if r.ContentLength != 0 && !shared.BindJSON(w, r, &payload) {
		return
	}
	rec, err := h.Service.CheckIn(r.Context(), user, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rec, err := h.Service.CheckOut(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStartBreak(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rec, err := h.Service.StartBreak(r.Context(), user, chi.URLParam(r, "recordID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEndBreak(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rec, err := h.Service.EndBreak(r.Context(), user, chi.URLParam(r, "recordID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleManual(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload attendance.ManualInput
	if !shared.BindJSON(w, r, &payload) {
		return
	}
	rec, err := h.Service.CreateManual(r.Context(), user, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.audit(r, user, audit.ActionAttendanceManual, rec.ID, rec)
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload attendance.UpdateInput
	if !shared.BindJSON(w, r, &payload) {
		return
	}
	rec, err := h.Service.Update(r.Context(), user, chi.URLParam(r, "recordID"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.audit(r, user, audit.ActionAttendanceUpdate, rec.ID, rec)
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	id := chi.URLParam(r, "recordID")
	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		writeError(w, r, err)
		return
	}
	h.audit(r, user, audit.ActionAttendanceDelete, id, nil)
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) audit(r *http.Request, user auth.UserContext, action, id string, after any) {
	shared.Audit(r, h.Audit, audit.Entry{ActorID: user.UserID, Action: action, EntityType: "attendance", EntityID: id, After: after})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "attendance_not_found", "attendance record not found", requestID)
	case errors.Is(err, attendance.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to access this attendance record", requestID)
	case errors.Is(err, attendance.ErrNoEmployee):
		api.Fail(w, http.StatusForbidden, "employee_not_linked", err.Error(), requestID)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		api.Fail(w, http.StatusConflict, "already_checked_in", err.Error(), requestID)
	case errors.Is(err, attendance.ErrCheckedOut):
		api.Fail(w, http.StatusConflict, "already_checked_out", err.Error(), requestID)
	case errors.Is(err, attendance.ErrActiveBreak):
		api.Fail(w, http.StatusConflict, "break_active", err.Error(), requestID)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		api.Fail(w, http.StatusBadRequest, "not_checked_in", err.Error(), requestID)
	case errors.Is(err, attendance.ErrNoActiveBreak):
		api.Fail(w, http.StatusBadRequest, "no_active_break", err.Error(), requestID)
	case errors.Is(err, attendance.ErrInvalidTime):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "logoutTime", Reason: err.Error()}})
	default:
		slog.Error("attendance request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "attendance_request_failed", "attendance request failed", requestID)
	}
}
