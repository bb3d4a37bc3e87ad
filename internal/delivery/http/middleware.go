package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Carune/Ticket-Service-Practice/internal/service"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// userIDKey holds the authenticated user ID in the request context.
type userIDKey struct{}

func userIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

// Authenticator validates the Bearer token and stores its subject in the
// request context for downstream handlers.
func Authenticator(authSvc service.AuthService, l logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				respondHTTPError(w, r, errUnauthenticated)
				return
			}

			userID, err := authSvc.VerifyToken(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				respondHTTPError(w, r, errUnauthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// QueueGate blocks queue-protected operations for callers without a live
// active session. It is a pure guard: it checks and either forwards or
// rejects, nothing else.
func QueueGate(qSvc service.QueueService, l logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := userIDFromContext(r.Context())
			if !ok {
				respondHTTPError(w, r, errUnauthenticated)
				return
			}

			allowed, err := qSvc.IsAllowed(r.Context(), userID)
			if err != nil {
				l.Errorf(r.Context(), "delivery.http.QueueGate: %v", err)
				respondHTTPError(w, r, errInternal)
				return
			}

			if !allowed {
				l.Warnf(r.Context(), "Gate rejected user %s", userID)
				respondHTTPError(w, r, errNotAdmitted)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
