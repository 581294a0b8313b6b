package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/svce-events/attendance-report/internal/domain/auth"
	"github.com/svce-events/attendance-report/internal/handler/http/response"
)

// RequireExporter allows admins and coordinators through.
func RequireExporter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok || !auth.Role(roleStr).CanExport() {
			response.HandleError(w, auth.ErrForbiddenRole)
			return
		}

		next.ServeHTTP(w, r)
	})
}
