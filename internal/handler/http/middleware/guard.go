package middleware

import (
	"log/slog"
	"net/http"

	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/handler/http/response"
)

// IdentityFromRequest returns the session identity, or nil for anonymous requests.
func IdentityFromRequest(r *http.Request) *string {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return nil
	}
	id := session.IdentityID
	return &id
}

// RequireArea lets the request through only when the guard allows the session into area.
// Denied requests get 401 with the login path or 403 with the home path in redirect_to.
func RequireArea(guard access.Guard, area access.Area, routes access.Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := guard.Check(r.Context(), IdentityFromRequest(r), area)
			if err != nil {
				slog.Error("Guard check error", "area", area, "error", err)
				response.HandleError(w, err)
				return
			}

			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			redirectTo := routes.Path(decision.Destination)
			if decision.Destination.IsLogin() {
				response.Redirect(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", redirectTo)
				return
			}
			if decision.Destination == access.DestinationPendingApproval {
				response.Redirect(w, http.StatusForbidden, "PENDING_APPROVAL", "Admin access is pending approval", redirectTo)
				return
			}
			response.Redirect(w, http.StatusForbidden, "FORBIDDEN", "Access to this area is not allowed for your role", redirectTo)
		})
	}
}
