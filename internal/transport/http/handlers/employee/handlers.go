package employeehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, int, error)
	Get(ctx context.Context, ref string) (employee.Employee, error)
	ForUser(ctx context.Context, caller auth.UserContext) (employee.Employee, error)
	Create(ctx context.Context, in employee.CreateInput) (employee.Employee, error)
	Update(ctx context.Context, ref string, in employee.UpdateInput) (employee.Employee, error)
	Delete(ctx context.Context, ref string) error
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
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{employeeID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if !user.IsAdmin() {
		self, err := h.Service.ForUser(r.Context(), user)
		if err != nil {
			writeError(w, r, err)
			return
		}
		api.List(w, []employee.Employee{self}, api.ListMeta{Total: 1, Limit: 1}, middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := employee.ListFilter{
		Department: strings.TrimSpace(r.URL.Query().Get("department")),
		Search:     strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	items, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []employee.Employee{}
	}
	api.List(w, items, api.ListMeta{Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	self, err := h.Service.ForUser(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, self, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !user.IsAdmin() && !emp.Identity().Matches(user.EmployeeID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "employees may only view their own record", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload employee.CreateInput
	if !shared.BindJSON(w, r, &payload) {
		return
	}
	created, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.audit(r, audit.ActionEmployeeCreate, created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload employee.UpdateInput
	if !shared.BindJSON(w, r, &payload) {
		return
	}
	ref := chi.URLParam(r, "employeeID")
	var before any
	if h.Audit != nil {
		if existing, err := h.Service.Get(r.Context(), ref); err == nil {
			before = existing
		}
	}
	updated, err := h.Service.Update(r.Context(), ref, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.audit(r, audit.ActionEmployeeUpdate, updated.ID, before, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "employeeID")
	if err := h.Service.Delete(r.Context(), ref); err != nil {
		writeError(w, r, err)
		return
	}
	h.audit(r, audit.ActionEmployeeDelete, ref, nil, nil)
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) audit(r *http.Request, action, entityID string, before, after any) {
	entry := audit.Entry{Action: action, EntityType: "employee", EntityID: entityID, Before: before, After: after}
	if user, ok := middleware.GetUser(r.Context()); ok {
		entry.ActorID = user.UserID
	}
	shared.Audit(r, h.Audit, entry)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, employee.ErrNotLinked):
		api.Fail(w, http.StatusNotFound, "employee_not_linked", err.Error(), requestID)
	case errors.Is(err, employee.ErrConflict):
		api.Fail(w, http.StatusConflict, "employee_conflict", err.Error(), requestID)
	case errors.Is(err, employee.ErrInvalidSalary), errors.Is(err, employee.ErrInvalidJoining):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: invalidField(err), Reason: err.Error()}})
	default:
		slog.Error("employee request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_request_failed", "employee request failed", requestID)
	}
}

func invalidField(err error) string {
	if errors.Is(err, employee.ErrInvalidSalary) {
		return "salary"
	}
	return "joiningDate"
}
