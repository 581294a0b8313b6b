package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/svce-events/attendance-report/internal/domain/auth"
	"github.com/svce-events/attendance-report/internal/handler/http/response"
)

// AuthRequired accepts only verified access tokens. jwtauth.Verifier must run
// first.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if userID, _ := claims["user_id"].(string); userID == "" {
				response.HandleError(w, auth.ErrMissingUserClaims)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
