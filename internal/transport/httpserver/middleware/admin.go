package middleware

import (
	"net/http"

	"family-chores-go/internal/transport/httpserver/handler/common"
)

// RequireAdmin must run after ParentAuth.
func RequireAdmin(isAdmin func(email string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				common.Unauthorized(w)
				return
			}
			if !isAdmin(user.Email) {
				common.WriteError(w, http.StatusForbidden, "not_admin", "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
