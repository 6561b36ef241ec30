package http

import (
	"context"
	"net/http"

	"github.com/mayankwalia/MyBasketBackend/internal/domain"
)

type contextKey string

const capabilityKey contextKey = "capability"

// Header names set by the authenticating gateway in front of this service.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// CapabilityExtractor reads the gateway-supplied identity headers into a
// domain.Capability on the request context. Requests without headers carry an
// empty capability; role checks downstream fail closed.
func CapabilityExtractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap := domain.Capability{
			UserID: r.Header.Get(headerUserID),
			Role:   r.Header.Get(headerUserRole),
		}
		ctx := context.WithValue(r.Context(), capabilityKey, cap)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CapabilityFromContext returns the caller's capability. The zero value means
// an unauthenticated request.
func CapabilityFromContext(ctx context.Context) domain.Capability {
	cap, _ := ctx.Value(capabilityKey).(domain.Capability)
	return cap
}
