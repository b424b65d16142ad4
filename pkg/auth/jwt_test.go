package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blawness/SimplePOS/config"
)

func setupSecret(t *testing.T) {
	t.Helper()
	config.Set("JWT_SECRET", "test-secret-key")
	t.Cleanup(func() { config.Set("JWT_SECRET", "") })
}

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	now = func() time.Time { return at }
	t.Cleanup(func() { now = time.Now })
}

func TestIssueAndVerify(t *testing.T) {
	setupSecret(t)

	token, err := Issue(42, false)
	require.NoError(t, err)

	id, err := Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestVerifyExpiredSession(t *testing.T) {
	setupSecret(t)

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	freezeClock(t, issued)
	token, err := Issue(7, false)
	require.NoError(t, err)

	// Still valid just under a day later.
	freezeClock(t, issued.Add(23*time.Hour))
	id, err := Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	// Expired after the 24 hour window.
	freezeClock(t, issued.Add(25*time.Hour))
	_, err = Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRememberMeWindow(t *testing.T) {
	setupSecret(t)

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	freezeClock(t, issued)
	token, err := Issue(7, true)
	require.NoError(t, err)

	freezeClock(t, issued.Add(29*24*time.Hour))
	id, err := Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	freezeClock(t, issued.Add(31*24*time.Hour))
	_, err = Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	setupSecret(t)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	setupSecret(t)

	token, err := Issue(1, false)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	setupSecret(t)

	token, err := Issue(1, false)
	require.NoError(t, err)

	config.Set("JWT_SECRET", "a-different-secret")
	_, err = Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCookieRoundTrip(t *testing.T) {
	setupSecret(t)

	rec := httptest.NewRecorder()
	SetCookie(rec, "some-token", false)

	res := rec.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "some-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	got, ok := TokenFromRequest(req)
	assert.True(t, ok)
	assert.Equal(t, "some-token", got)
}

func TestClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("", "hunter2"))
}

func TestTokenFromRequestMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := TokenFromRequest(req)
	assert.False(t, ok)
}
