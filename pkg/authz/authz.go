// Package authz provides permission-based access control on top of the
// role/permission join tables. Checks are pure and fail closed: a missing
// user, role, or permission list always denies.
package authz

import (
	"net/http"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/middleware"
	"github.com/Blawness/SimplePOS/pkg/response"
)

// HasPermission reports whether the user's role grants the named permission.
// The user's Role.Permissions must already be loaded; no database access
// happens here.
func HasPermission(u *models.User, perm string) bool {
	if u == nil || perm == "" {
		return false
	}
	for _, p := range u.Role.Permissions {
		if p.Name == perm {
			return true
		}
	}
	return false
}

// RequirePermission returns middleware that allows the request through only
// when the authenticated user holds the permission. Requires Authenticate
// to have run first; an absent user yields 401, a present user without the
// permission yields 403.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := middleware.UserFromCtx(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !HasPermission(user, perm) {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
