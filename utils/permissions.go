package utils

import (
	"errors"

	"gorm.io/gorm"

	"docuhub/models"
)

// ScopeKind distinguishes the two resource families a grant can protect.
type ScopeKind string

const (
	ScopeWorkspace ScopeKind = "workspace"
	ScopeDocument  ScopeKind = "document"
)

// Scope identifies the resource a permission check runs against. A grant is
// (principal, scope, role); resolution looks up the grant for the exact
// scope, resolves its role and tests permission-set membership.
type Scope struct {
	Kind ScopeKind
	ID   uint
}

// WorkspaceScope returns the scope for a workspace.
func WorkspaceScope(id uint) Scope { return Scope{Kind: ScopeWorkspace, ID: id} }

// DocumentScope returns the scope for a directly shared document.
func DocumentScope(id uint) Scope { return Scope{Kind: ScopeDocument, ID: id} }

// ScopeForDocument returns the scope a document's permissions resolve
// against. Document-scope resolution consults the document's own
// collaborator grants first and falls back to the enclosing workspace's
// roles, so share-link grants work on workspace documents too.
func ScopeForDocument(doc *models.Document) Scope {
	return DocumentScope(doc.ID)
}

// ResolvePermission reports whether the user holds the permission in the
// given scope. It is pure: no state is mutated, absence of a grant is an
// unconditional false, never an error.
func ResolvePermission(db *gorm.DB, userID uint, scope Scope, perm models.Permission) (bool, error) {
	role, err := resolveRole(db, userID, scope)
	if err != nil {
		return false, err
	}
	if role == nil {
		return false, nil
	}
	return role.Contains(perm), nil
}

// CheckPermission is ResolvePermission with a typed denial: it returns a
// *PermissionError naming the token and the role held so the API layer can
// report both.
func CheckPermission(db *gorm.DB, userID uint, scope Scope, perm models.Permission) error {
	grant, err := resolveGrant(db, userID, scope)
	if err != nil {
		return err
	}
	if grant == nil {
		return &PermissionError{Permission: perm}
	}
	if !grant.permissions.Contains(perm) {
		return &PermissionError{Permission: perm, Role: grant.roleName}
	}
	return nil
}

// CollaboratorRole returns the role a user holds on a document, or "" if
// the user has no collaborator row at all.
func CollaboratorRole(db *gorm.DB, documentID, userID uint) (string, error) {
	var collab models.DocumentCollaborator
	err := db.Where("document_id = ? AND user_id = ?", documentID, userID).First(&collab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return collab.Role, nil
}

type grant struct {
	roleName    string
	permissions models.PermissionList
}

func resolveGrant(db *gorm.DB, userID uint, scope Scope) (*grant, error) {
	switch scope.Kind {
	case ScopeWorkspace:
		var membership models.Membership
		err := db.Preload("Role").
			Where("user_id = ? AND workspace_id = ?", userID, scope.ID).
			First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &grant{roleName: membership.Role.Name, permissions: membership.Role.Permissions}, nil
	case ScopeDocument:
		role, err := CollaboratorRole(db, scope.ID, userID)
		if err != nil {
			return nil, err
		}
		if role != "" {
			return &grant{roleName: role, permissions: models.CollaboratorPermissions(role)}, nil
		}
		// No direct grant; a workspace document still honors workspace roles.
		var doc models.Document
		err = db.Select("workspace_id").First(&doc, scope.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if doc.WorkspaceID == nil {
			return nil, nil
		}
		return resolveGrant(db, userID, WorkspaceScope(*doc.WorkspaceID))
	default:
		return nil, nil
	}
}

func resolveRole(db *gorm.DB, userID uint, scope Scope) (models.PermissionList, error) {
	g, err := resolveGrant(db, userID, scope)
	if err != nil || g == nil {
		return nil, err
	}
	return g.permissions, nil
}
