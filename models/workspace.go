package models

import (
	"gorm.io/gorm"
)

// Permission is an atomic capability token checked against a role's
// permission set. The set of tokens is closed; anything else is rejected
// at the boundary.
type Permission string

const (
	PermissionCreateDocument Permission = "create_document"
	PermissionEditDocument   Permission = "edit_document"
	PermissionViewDocument   Permission = "view_document"
	PermissionDeleteDocument Permission = "delete_document"
	PermissionManageMembers  Permission = "manage_members"
)

// AllPermissions lists every valid permission token.
var AllPermissions = []Permission{
	PermissionCreateDocument,
	PermissionEditDocument,
	PermissionViewDocument,
	PermissionDeleteDocument,
	PermissionManageMembers,
}

// ValidPermission reports whether p is a member of the closed token set.
func ValidPermission(p Permission) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// PermissionList is an ordered set of permission tokens stored as JSON.
type PermissionList []Permission

// Contains reports whether the list holds the given token.
func (pl PermissionList) Contains(p Permission) bool {
	for _, have := range pl {
		if have == p {
			return true
		}
	}
	return false
}

// Workspace is a tenant boundary owning documents, roles and memberships.
// Names are unique per owner, not globally.
type Workspace struct {
	gorm.Model
	Name    string `gorm:"not null;uniqueIndex:idx_workspaces_owner_name" json:"name"`
	OwnerID uint   `gorm:"not null;index;uniqueIndex:idx_workspaces_owner_name" json:"owner_id"`

	// Relations
	Owner       User         `json:"-"`
	Roles       []Role       `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	Memberships []Membership `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
	Documents   []Document   `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// Role is a named permission set scoped to a workspace. Four canonical
// roles (Owner, Admin, Editor, Viewer) are seeded when a workspace is
// created; memberships reference roles so editing a role's permissions
// retroactively changes every member holding it.
type Role struct {
	gorm.Model
	Name        string         `gorm:"not null;uniqueIndex:idx_roles_workspace_name" json:"name"`
	WorkspaceID uint           `gorm:"not null;index;uniqueIndex:idx_roles_workspace_name" json:"workspace_id"`
	Permissions PermissionList `gorm:"serializer:json" json:"permissions"`
	IsDefault   bool           `gorm:"default:false" json:"is_default"`

	// Relations
	Workspace Workspace `json:"-"`
}

// HasPermission reports whether the role's permission set grants p.
func (r *Role) HasPermission(p Permission) bool {
	return r.Permissions.Contains(p)
}

// Membership binds a user to a workspace under a role. Permissions are
// never copied onto the membership; they are always resolved through the
// role reference.
type Membership struct {
	gorm.Model
	UserID      uint `gorm:"not null;uniqueIndex:idx_memberships_user_workspace" json:"user_id"`
	WorkspaceID uint `gorm:"not null;index;uniqueIndex:idx_memberships_user_workspace" json:"workspace_id"`
	RoleID      uint `gorm:"not null;index" json:"role_id"`

	// Relations
	User      User      `json:"-"`
	Workspace Workspace `json:"-"`
	Role      Role      `json:"role,omitempty"`
}
