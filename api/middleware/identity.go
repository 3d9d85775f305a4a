package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/logger"
)

const (
	customerIDHeader = "X-Customer-Id"
	sessionIDHeader  = "X-Session-Id"
)

type customerIDKey struct{}
type sessionIDKey struct{}

// Identity extracts the caller identity headers. The customer id is set by
// the upstream gateway after authentication; the session id is the sole
// guest-identity mechanism. Neither is required here, handlers that need an
// identity enforce it themselves.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if raw := strings.TrimSpace(r.Header.Get(customerIDHeader)); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					ctx = context.WithValue(ctx, customerIDKey{}, id)
					if logg != nil {
						ctx = logg.WithCustomerID(ctx, id.String())
					}
				}
			}

			if raw := strings.TrimSpace(r.Header.Get(sessionIDHeader)); raw != "" {
				ctx = context.WithValue(ctx, sessionIDKey{}, raw)
				if logg != nil {
					ctx = logg.WithSessionID(ctx, raw)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CustomerIDFromContext returns the authenticated customer id, if any.
func CustomerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(customerIDKey{}).(uuid.UUID)
	return id, ok
}

// SessionIDFromContext returns the guest session id, if any.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok
}
