package utils

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"docuhub/models"
)

var testDBCounter uint64

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddUint64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:utils_test_%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Workspace{},
		&models.Role{},
		&models.Membership{},
		&models.Document{},
		&models.DocumentCollaborator{},
		&models.ShareLink{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		IsActive:     true,
		TokenVersion: 1,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestWorkspace(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Workspace {
	t.Helper()
	ws := models.Workspace{Name: name, OwnerID: owner.ID}
	require.NoError(t, db.Create(&ws).Error)
	require.NoError(t, SeedWorkspaceRoles(db, ws.ID))

	var ownerRole models.Role
	require.NoError(t, db.Where("workspace_id = ? AND name = ?", ws.ID, RoleOwner).First(&ownerRole).Error)
	require.NoError(t, db.Create(&models.Membership{
		UserID:      owner.ID,
		WorkspaceID: ws.ID,
		RoleID:      ownerRole.ID,
	}).Error)
	return &ws
}

func addTestMember(t *testing.T, db *gorm.DB, ws *models.Workspace, user *models.User, roleName string) *models.Membership {
	t.Helper()
	var role models.Role
	require.NoError(t, db.Where("workspace_id = ? AND name = ?", ws.ID, roleName).First(&role).Error)
	m := models.Membership{UserID: user.ID, WorkspaceID: ws.ID, RoleID: role.ID}
	require.NoError(t, db.Create(&m).Error)
	return &m
}

func newTestStore(t *testing.T, db *gorm.DB) *DocumentStore {
	t.Helper()
	return NewDocumentStore(db, NewLogger("test"))
}
