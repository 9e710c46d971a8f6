package middleware

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

const CorrelationIDHeader = "X-Correlation-ID"

// maxCorrelationIDLen bounds ids supplied by clients before they reach logs.
const maxCorrelationIDLen = 128

// CorrelationIDMiddleware ensures every request/response carries a correlation ID
// and stores it in the request context for the logger.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(CorrelationIDHeader)
		if cid == "" || len(cid) > maxCorrelationIDLen {
			cid = ulid.Make().String()
		}
		w.Header().Set(CorrelationIDHeader, cid)
		next.ServeHTTP(w, r.WithContext(logger.WithCorrelationID(r.Context(), cid)))
	})
}
