package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/pkg/testkit"
)

func newResetFixture(t *testing.T) (*services.PasswordResetService, *gorm.DB, *models.User) {
	t.Helper()
	db := testkit.NewDB(t)
	testkit.SetJWTSecret(t)

	role := testkit.SeedRole(t, db, "Cashier", "product.read")
	user := testkit.SeedUser(t, db, "Budi", "budi@simplepos.local", "budi", "oldpassword", role)
	svc := services.NewPasswordResetService(
		repositories.NewUserRepository(),
		repositories.NewResetTokenRepository(),
	)
	return svc, db, user
}

func storedToken(t *testing.T, db *gorm.DB, userID uint) *models.PasswordResetToken {
	t.Helper()
	var rec models.PasswordResetToken
	require.NoError(t, db.Where("user_id = ?", userID).First(&rec).Error)
	return &rec
}

func TestRequestResetCreatesToken(t *testing.T) {
	svc, db, user := newResetFixture(t)

	require.NoError(t, svc.RequestReset("budi@simplepos.local"))

	rec := storedToken(t, db, user.ID)
	assert.Len(t, rec.Token, 64)
	assert.Nil(t, rec.UsedAt)
	assert.WithinDuration(t, time.Now().Add(services.ResetTokenTTL), rec.ExpiresAt, time.Minute)
}

func TestRequestResetUnknownAccountIsSilent(t *testing.T) {
	svc, db, _ := newResetFixture(t)

	require.NoError(t, svc.RequestReset("nobody@simplepos.local"))

	var n int64
	require.NoError(t, db.Model(&models.PasswordResetToken{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestResetPasswordConsumesToken(t *testing.T) {
	svc, db, user := newResetFixture(t)
	require.NoError(t, svc.RequestReset("budi"))
	rec := storedToken(t, db, user.ID)

	require.NoError(t, svc.ResetPassword(rec.Token, "newpassword"))

	// New password works, old one does not.
	authSvc := services.NewAuthService(repositories.NewUserRepository())
	_, _, err := authSvc.Login("budi", "newpassword", false)
	assert.NoError(t, err)
	_, _, err = authSvc.Login("budi", "oldpassword", false)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Token is spent.
	err = svc.ResetPassword(rec.Token, "anotherpassword")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, db, user := newResetFixture(t)
	require.NoError(t, svc.RequestReset("budi"))
	rec := storedToken(t, db, user.ID)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(rec).Update("expires_at", past).Error)

	err := svc.ResetPassword(rec.Token, "newpassword")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	svc, _, _ := newResetFixture(t)

	err := svc.ResetPassword("deadbeef", "newpassword")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
}

func TestPurgeExpiredTokens(t *testing.T) {
	svc, db, user := newResetFixture(t)
	require.NoError(t, svc.RequestReset("budi"))
	rec := storedToken(t, db, user.ID)
	require.NoError(t, db.Model(rec).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	svc.PurgeExpiredTokens()

	var n int64
	require.NoError(t, db.Model(&models.PasswordResetToken{}).Count(&n).Error)
	assert.Zero(t, n)
}
