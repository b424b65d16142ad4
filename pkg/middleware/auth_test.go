package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/config"
	"github.com/Blawness/SimplePOS/pkg/auth"
)

type stubLoader struct {
	users map[uint]*models.User
}

func (s *stubLoader) FindByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func withToken(t *testing.T, req *http.Request, userID uint) *http.Request {
	t.Helper()
	token, err := auth.Issue(userID, false)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	return req
}

func TestAuthenticate(t *testing.T) {
	config.Set("JWT_SECRET", "middleware-test-secret")
	t.Cleanup(func() { config.Set("JWT_SECRET", "") })

	active := &models.User{Status: models.StatusActive, Name: "Alice"}
	active.ID = 1
	inactive := &models.User{Status: models.StatusInactive, Name: "Bob"}
	inactive.ID = 2

	loader := &stubLoader{users: map[uint]*models.User{1: active, 2: inactive}}
	handler := Authenticate(loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromCtx(r)
		require.True(t, ok)
		assert.Equal(t, "Alice", u.Name)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid session", func(t *testing.T) {
		req := withToken(t, httptest.NewRequest(http.MethodGet, "/api/products", nil), 1)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := withToken(t, httptest.NewRequest(http.MethodGet, "/api/products", nil), 99)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		req := withToken(t, httptest.NewRequest(http.MethodGet, "/api/products", nil), 2)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPageGuard(t *testing.T) {
	config.Set("JWT_SECRET", "middleware-test-secret")
	t.Cleanup(func() { config.Set("JWT_SECRET", "") })

	handler := PageGuard(okHandler())

	t.Run("unauthenticated dashboard visit redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/products", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?redirect=%2Fdashboard%2Fproducts", rec.Header().Get("Location"))
	})

	t.Run("authenticated dashboard visit passes", func(t *testing.T) {
		req := withToken(t, httptest.NewRequest(http.MethodGet, "/dashboard", nil), 1)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired token redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "stale"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusFound, rec.Code)
	})

	t.Run("api and login paths bypass the guard", func(t *testing.T) {
		for _, path := range []string{"/api/products", "/login", "/health"} {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})
}
