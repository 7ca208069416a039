package leavehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/payroll"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, caller auth.UserContext, filter leave.ListFilter) ([]leave.Request, int, error)
	IdentityFor(ctx context.Context, ref string) (payroll.EmployeeIdentity, error)
	Create(ctx context.Context, caller auth.UserContext, in leave.CreateInput) (leave.Request, error)
	Decide(ctx context.Context, caller auth.UserContext, id string, in leave.DecisionInput) (leave.Request, error)
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
	r.Route("/leave-requests", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveRequest, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLeaveDecide, h.Perms)).Put("/{requestID}", h.handleDecide)
		r.With(middleware.RequirePermission(auth.PermLeaveRequest, h.Perms)).Delete("/{requestID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	query := r.URL.Query()
	v := shared.NewValidator()
	v.Enum("status", query.Get("status"), leave.Statuses, "must be pending, approved or rejected")
	var from, to time.Time
	if raw := query.Get("from"); raw != "" {
		from, _ = v.Date("from", raw)
	}
	if raw := query.Get("to"); raw != "" {
		to, _ = v.Date("to", raw)
	}
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := leave.ListFilter{
		Status: strings.ToLower(strings.TrimSpace(query.Get("status"))),
		From:   from,
		To:     to,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if ref := strings.TrimSpace(query.Get("employeeId")); ref != "" && user.IsAdmin() {
		identity, err := h.Service.IdentityFor(r.Context(), ref)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.EmployeeIDs = identity.IDs()
	}

	items, total, err := h.Service.List(r.Context(), user, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []leave.Request{}
	}
	api.List(w, items, api.ListMeta{Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload leave.CreateInput
	if !shared.BindJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	v.Enum("leaveType", payload.LeaveType, leave.LeaveTypes, "must be one of "+strings.Join(leave.LeaveTypes, ", "))
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.Create(r.Context(), user, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload leave.DecisionInput
	if !shared.BindJSON(w, r, &payload) {
		return
	}
	if payload.Status == nil && payload.IsPaid == nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "status", Reason: "status or isPaid is required"}})
		return
	}

	updated, err := h.Service.Decide(r.Context(), user, chi.URLParam(r, "requestID"), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.Entry{
		ActorID:    user.UserID,
		Action:     audit.ActionLeaveDecide,
		EntityType: "leave_request",
		EntityID:   updated.ID,
		After:      updated,
	})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	id := chi.URLParam(r, "requestID")
	if err := h.Service.Delete(r.Context(), user, id); err != nil {
		writeError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, audit.Entry{ActorID: user.UserID, Action: audit.ActionLeaveDelete, EntityType: "leave_request", EntityID: id})
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "leave_not_found", "leave request not found", requestID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, leave.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to modify this leave request", requestID)
	case errors.Is(err, leave.ErrNoEmployee):
		api.Fail(w, http.StatusForbidden, "employee_not_linked", err.Error(), requestID)
	case errors.Is(err, leave.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "only pending requests can be withdrawn", requestID)
	case errors.Is(err, leave.ErrInvalidRange), errors.Is(err, leave.ErrInvalidType), errors.Is(err, leave.ErrInvalidStatus):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: invalidField(err), Reason: err.Error()}})
	default:
		slog.Error("leave request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "leave_request_failed", "leave request failed", requestID)
	}
}

func invalidField(err error) string {
	switch {
	case errors.Is(err, leave.ErrInvalidType):
		return "leaveType"
	case errors.Is(err, leave.ErrInvalidStatus):
		return "status"
	default:
		return "endDate"
	}
}
