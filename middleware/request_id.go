// Package middleware provides the HTTP middleware shared by every route:
// request id propagation, structured access logging and request metrics.
package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is the HTTP header used to propagate the request identifier
const RequestIDHeader = "X-Request-ID"

// RequestID reuses an inbound X-Request-ID or generates a UUID, stores it in
// the request context and echoes it on the response
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
