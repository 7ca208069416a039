package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v3"
	"github.com/google/uuid"

	"hrms/internal/requestctx"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses a sane incoming X-Request-ID or mints one, echoes it back
// and tags the access log entry with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := requestctx.WithRequestID(r.Context(), id)
		httplog.SetAttrs(ctx, slog.String("requestId", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
