package shared

import (
	"net/http"

	"hrms/internal/requestctx"
)

func requestIDFrom(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}
