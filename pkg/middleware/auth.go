package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/pkg/auth"
	"github.com/Blawness/SimplePOS/pkg/response"
)

type ctxKey int

const userKey ctxKey = iota

// UserLoader resolves an authenticated user ID to a full user record.
// The returned user must carry Role with its Permissions preloaded so
// authorization checks never touch the database.
type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// UserFromCtx returns the authenticated user set by Authenticate.
func UserFromCtx(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(userKey).(*models.User)
	return u, ok
}

// WithUser injects a user into the request context. Exposed for tests and
// for the websocket upgrade path.
func WithUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, u))
}

// Authenticate verifies the pos_auth cookie, loads the user, and stores it
// in the request context. Missing, invalid, or expired tokens and inactive
// users all produce the same 401 response.
func Authenticate(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.TokenFromRequest(r)
			if !ok {
				response.Unauthorized(w)
				return
			}

			userID, err := auth.Verify(token)
			if err != nil {
				response.Unauthorized(w)
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil || user == nil || user.Status != models.StatusActive {
				response.Unauthorized(w)
				return
			}

			next.ServeHTTP(w, WithUser(r, user))
		})
	}
}

// OptionalAuthenticate attaches the user when a valid session cookie is
// present and otherwise lets the request through anonymously. Used by
// endpoints that answer differently for signed-in visitors but never 401.
func OptionalAuthenticate(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.TokenFromRequest(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := auth.Verify(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.FindByID(r.Context(), userID)
			if err != nil || user == nil || user.Status != models.StatusActive {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, WithUser(r, user))
		})
	}
}

// PageGuard protects browser-facing dashboard pages. Unauthenticated
// visitors are redirected to the login page with the original path in the
// redirect query parameter. API routes and the login page itself pass
// through untouched.
func PageGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/api") || path == "/login" || !strings.HasPrefix(path, "/dashboard") {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := auth.TokenFromRequest(r)
		if ok {
			if _, err := auth.Verify(token); err == nil {
				next.ServeHTTP(w, r)
				return
			}
		}

		target := "/login?redirect=" + url.QueryEscape(path)
		http.Redirect(w, r, target, http.StatusFound)
	})
}
