package models

import (
	"time"

	"gorm.io/gorm"
)

// Content types a document may carry.
const (
	ContentTypePlain      = "plain"
	ContentTypeHTML       = "html"
	ContentTypeMarkdown   = "markdown"
	ContentTypeStructured = "structured"
)

// Collaborator roles for directly shared documents. Exactly one
// collaborator per document holds the owner role; it is created with the
// document and can never be reassigned or removed while the document exists.
const (
	CollaboratorOwner  = "owner"
	CollaboratorEditor = "editor"
	CollaboratorReader = "reader"
)

// collaboratorPermissions maps each collaborator role onto the same closed
// permission token set the workspace roles use, so the two sharing
// mechanisms resolve through one checker.
var collaboratorPermissions = map[string]PermissionList{
	CollaboratorOwner: {
		PermissionViewDocument,
		PermissionEditDocument,
		PermissionDeleteDocument,
		PermissionManageMembers,
	},
	CollaboratorEditor: {
		PermissionViewDocument,
		PermissionEditDocument,
	},
	CollaboratorReader: {
		PermissionViewDocument,
	},
}

// CollaboratorPermissions returns the fixed permission set for a
// collaborator role, or nil for an unknown role.
func CollaboratorPermissions(role string) PermissionList {
	return collaboratorPermissions[role]
}

// ValidCollaboratorRole reports whether role is assignable by collaborator
// management or share links. The owner role is deliberately excluded: it is
// only ever created together with the document.
func ValidCollaboratorRole(role string) bool {
	return role == CollaboratorEditor || role == CollaboratorReader
}

// TextSpan is a run of text with its own inline styling.
type TextSpan struct {
	Text   string                 `json:"text"`
	Styles map[string]interface{} `json:"styles,omitempty"`
}

// ContentBlock is one block of structured document content. It carries
// either a flat Text string or a sequence of styled spans, plus
// block-level style attributes.
type ContentBlock struct {
	Type    string                 `json:"type,omitempty"` // paragraph, heading1-3, list-item, code, quote
	Text    string                 `json:"text,omitempty"`
	Content []TextSpan             `json:"content,omitempty"`
	Styles  map[string]interface{} `json:"styles,omitempty"`
}

// Document is a single document, owned by a user and optionally belonging
// to a workspace. Titles are unique per owner.
type Document struct {
	gorm.Model
	Title         string                 `gorm:"not null;uniqueIndex:idx_documents_owner_title" json:"title"`
	Content       string                 `gorm:"type:text" json:"content"`
	ContentType   string                 `gorm:"default:'plain'" json:"content_type"`
	ContentBlocks []ContentBlock         `gorm:"serializer:json" json:"content_blocks,omitempty"`
	Styles        map[string]interface{} `gorm:"serializer:json" json:"styles,omitempty"`
	WorkspaceID   *uint                  `gorm:"index" json:"workspace_id,omitempty"`
	OwnerID       uint                   `gorm:"not null;index;uniqueIndex:idx_documents_owner_title" json:"owner_id"`

	// Relations
	Owner         User                   `json:"-"`
	Collaborators []DocumentCollaborator `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"collaborators,omitempty"`
	ShareLinks    []ShareLink            `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
}

// DocumentCollaborator binds a user to a single document under an access
// role (owner/editor/reader). Unique per (document, user).
type DocumentCollaborator struct {
	gorm.Model
	DocumentID uint   `gorm:"not null;index;uniqueIndex:idx_collaborators_document_user" json:"document_id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_collaborators_document_user" json:"user_id"`
	Role       string `gorm:"not null" json:"role"`

	// Relations
	Document Document `json:"-"`
	User     User     `json:"-"`
}

// ShareLink is a bearer-token capability granting a fixed role on one
// document until expiry or revocation. Revocation flips IsActive; rows are
// never deleted so the history stays queryable.
type ShareLink struct {
	gorm.Model
	DocumentID uint       `gorm:"not null;index" json:"document_id"`
	Token      string     `gorm:"size:64;uniqueIndex;not null" json:"token"`
	Role       string     `gorm:"size:20;not null" json:"role"` // editor or reader
	CreatedBy  uint       `gorm:"not null" json:"created_by"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"` // nil = never expires
	IsActive   bool       `gorm:"default:true" json:"is_active"`

	// Relations
	Document Document `json:"-"`
}

// Expired reports whether the link has an expiry in the past.
func (sl *ShareLink) Expired(now time.Time) bool {
	return sl.ExpiresAt != nil && now.After(*sl.ExpiresAt)
}
