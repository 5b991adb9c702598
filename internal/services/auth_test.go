package services

import (
	"testing"

	"funddesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.CreateUser("analyst", "secret123", models.RoleUser)
	require.NoError(t, err)

	user, err := svc.Authenticate("analyst", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "analyst", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)

	_, err = svc.Authenticate("analyst", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("ghost", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUser_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.CreateUser("", "pw", models.RoleUser)
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeEmptyField, ve.Code)

	_, err = svc.CreateUser("bob", "", models.RoleUser)
	_, ok = IsValidation(err)
	assert.True(t, ok)

	_, err = svc.CreateUser("bob", "pw", "superuser")
	ve, ok = IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidRole, ve.Code)

	// empty role defaults to user
	user, err := svc.CreateUser("bob", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	_, err = svc.CreateUser("bob", "pw2", models.RoleUser)
	ve, ok = IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, CodeDuplicateName, ve.Code)
}

func TestSetRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.CreateUser("bob", "pw", models.RoleUser)
	require.NoError(t, err)

	require.NoError(t, svc.SetRole(user.ID, models.RoleAdmin))

	reloaded, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)

	assert.ErrorIs(t, svc.SetRole(9999, models.RoleUser), ErrNotFound)

	_, ok := IsValidation(svc.SetRole(user.ID, "root"))
	assert.True(t, ok)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	require.NoError(t, svc.EnsureAdmin("admin", "admin123"))
	require.NoError(t, svc.EnsureAdmin("admin", "different"))

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)

	// the original password still works
	_, err = svc.Authenticate("admin", "admin123")
	require.NoError(t, err)
}
