package utils

import (
	"gorm.io/gorm"

	"docuhub/models"
)

// Canonical role names seeded into every workspace.
const (
	RoleOwner  = "Owner"
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)

// defaultRoles are the four canonical roles seeded into every workspace.
func defaultRoles(workspaceID uint) []models.Role {
	return []models.Role{
		{
			Name:        RoleOwner,
			WorkspaceID: workspaceID,
			IsDefault:   true,
			Permissions: models.PermissionList{
				models.PermissionCreateDocument,
				models.PermissionEditDocument,
				models.PermissionViewDocument,
				models.PermissionDeleteDocument,
				models.PermissionManageMembers,
			},
		},
		{
			Name:        RoleAdmin,
			WorkspaceID: workspaceID,
			Permissions: models.PermissionList{
				models.PermissionCreateDocument,
				models.PermissionEditDocument,
				models.PermissionViewDocument,
				models.PermissionDeleteDocument,
			},
		},
		{
			Name:        RoleEditor,
			WorkspaceID: workspaceID,
			Permissions: models.PermissionList{
				models.PermissionCreateDocument,
				models.PermissionEditDocument,
				models.PermissionViewDocument,
			},
		},
		{
			Name:        RoleViewer,
			WorkspaceID: workspaceID,
			Permissions: models.PermissionList{
				models.PermissionViewDocument,
			},
		},
	}
}

// SeedWorkspaceRoles creates the four canonical roles for a workspace.
// Seeding is idempotent: a workspace that already has any role is left
// untouched.
func SeedWorkspaceRoles(db *gorm.DB, workspaceID uint) error {
	var count int64
	if err := db.Model(&models.Role{}).Where("workspace_id = ?", workspaceID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // already seeded
	}
	roles := defaultRoles(workspaceID)
	return db.Create(&roles).Error
}
