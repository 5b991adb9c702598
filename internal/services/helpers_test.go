package services

import (
	"path/filepath"
	"testing"

	"funddesk/internal/database"
	"funddesk/internal/models"
	"funddesk/internal/storage"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	files, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return files
}

func newTestUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Username: username, PasswordHash: string(hash), Role: role}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
