package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/handler/http/response"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/jwt"
)

// Session turns a verified access token into an auth.Session on the request
// context. Requests without a valid access token pass through anonymous.
// It must run after jwtauth.Verifier.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			next.ServeHTTP(w, r)
			return
		}

		tokenType, _ := claims["type"].(string)
		identityID, _ := claims["identity_id"].(string)
		profileID, _ := claims["profile_id"].(string)
		email, _ := claims["email"].(string)
		if tokenType != jwt.TokenTypeAccess || identityID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.WithSession(r.Context(), auth.Session{
			IdentityID: identityID,
			ProfileID:  profileID,
			Email:      email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthRequired rejects requests that carry no session.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SessionFromContext(r.Context()); !ok {
			if _, _, err := jwtauth.FromContext(r.Context()); err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}
