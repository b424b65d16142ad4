// Package auth issues and verifies the signed session tokens that back the
// pos_auth cookie, and wraps bcrypt for password storage.
package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Blawness/SimplePOS/config"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "pos_auth"

const (
	// SessionTTL is the lifetime of a regular login session.
	SessionTTL = 24 * time.Hour
	// RememberTTL is the lifetime when the user asked to be remembered.
	RememberTTL = 30 * 24 * time.Hour
)

// ErrInvalidToken covers every verification failure: bad signature, malformed
// token, expired claims, wrong claim shape. Callers must not distinguish
// between them.
var ErrInvalidToken = errors.New("auth: invalid token")

// now is swapped in tests to verify expiry behaviour at fixed instants.
var now = time.Now

func secret() []byte {
	return []byte(config.JWTSecret())
}

// Issue signs a session token for the given user. With remember set the
// token lives 30 days instead of 24 hours.
func Issue(userID uint, remember bool) (string, error) {
	ttl := SessionTTL
	if remember {
		ttl = RememberTTL
	}
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now()),
		ExpiresAt: jwt.NewNumericDate(now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// Verify parses a session token and returns the user ID it was issued for.
// Any failure returns ErrInvalidToken.
func Verify(token string) (uint, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return secret(), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// SetCookie writes the session cookie on the response. The cookie is
// HttpOnly and scoped to the whole site so both the API and the dashboard
// pages see it.
func SetCookie(w http.ResponseWriter, token string, remember bool) {
	ttl := SessionTTL
	if remember {
		ttl = RememberTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest extracts the session token from the request cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
