package shared

import (
	"context"
	"net/http"

	"hrms/internal/domain/audit"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/middleware"
)

type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Audit records entry with the request id and client address filled in.
// A nil auditor is a no-op. Failures are logged and never fail the request.
func Audit(r *http.Request, auditor Auditor, entry audit.Entry) {
	if auditor == nil {
		return
	}
	if entry.RequestID == "" {
		entry.RequestID = requestIDFrom(r)
	}
	if entry.IP == "" {
		entry.IP = middleware.ClientIP(r)
	}
	if err := auditor.Record(r.Context(), entry); err != nil {
		requestctx.Logger(r.Context()).Warn("audit record failed", "action", entry.Action, "entityId", entry.EntityID, "err", err)
	}
}
