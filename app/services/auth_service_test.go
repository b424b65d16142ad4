package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blawness/SimplePOS/app/models"
	"github.com/Blawness/SimplePOS/app/repositories"
	"github.com/Blawness/SimplePOS/app/services"
	"github.com/Blawness/SimplePOS/pkg/auth"
	"github.com/Blawness/SimplePOS/pkg/testkit"
)

func newAuthService(t *testing.T) (*services.AuthService, *models.User) {
	t.Helper()
	db := testkit.NewDB(t)
	testkit.SetJWTSecret(t)

	role := testkit.SeedRole(t, db, "Cashier", "transaction.create", "transaction.read", "product.read")
	user := testkit.SeedUser(t, db, "Budi", "budi@simplepos.local", "budi", "secret123", role)
	return services.NewAuthService(repositories.NewUserRepository()), user
}

func TestLoginByEmail(t *testing.T) {
	svc, user := newAuthService(t)

	token, got, err := svc.Login("budi@simplepos.local", "secret123", false)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	userID, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLoginByUsername(t *testing.T) {
	svc, user := newAuthService(t)

	_, got, err := svc.Login("budi", "secret123", true)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Cashier", got.Role.Name)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Login("budi", "wrong-password", false)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginUnknownIdentifier(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Login("nobody@simplepos.local", "secret123", false)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SetJWTSecret(t)

	role := testkit.SeedRole(t, db, "Cashier", "product.read")
	user := testkit.SeedUser(t, db, "Sari", "sari@simplepos.local", "sari", "secret123", role)
	require.NoError(t, db.Model(user).Update("status", models.StatusInactive).Error)

	svc := services.NewAuthService(repositories.NewUserRepository())
	_, _, err := svc.Login("sari", "secret123", false)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
