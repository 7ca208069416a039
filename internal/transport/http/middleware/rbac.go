package middleware

import (
	"context"
	"net/http"

	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
)

// PermissionStore answers whether a role carries a permission.
type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

// RequirePermission gates next on the caller's role. Missing callers get 401,
// store failures 500 and denied roles 403.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
				return
			}
			switch allowed, err := store.HasPermission(r.Context(), user.Role, permission); {
			case err != nil:
				requestctx.Logger(r.Context()).Error("permission lookup failed", "role", user.Role, "permission", permission, "err", err)
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", requestID)
			case !allowed:
				api.Fail(w, http.StatusForbidden, "forbidden", "missing permission "+permission, requestID)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
