package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docuhub/models"
)

// DocumentStore holds the document CRUD, collaborator and share-link
// operations. Multi-row invariants (document + owner grant, link acceptance
// + collaborator upgrade) are wrapped in one transaction so partial state
// is never observable.
type DocumentStore struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewDocumentStore(db *gorm.DB, logger *logrus.Entry) *DocumentStore {
	return &DocumentStore{DB: db, Logger: logger}
}

// CreateDocumentInput carries the fields accepted on document creation.
type CreateDocumentInput struct {
	Title         string                 `json:"title" validate:"required,max=255"`
	Content       string                 `json:"content" validate:"omitempty,max=1000000"`
	ContentType   string                 `json:"content_type" validate:"omitempty,oneof=plain html markdown structured"`
	ContentBlocks []models.ContentBlock  `json:"content_blocks"`
	Styles        map[string]interface{} `json:"styles"`
	WorkspaceID   *uint                  `json:"workspace_id"`
}

// UpdateDocumentInput is a partial field set; nil fields are left
// untouched. At least one field must be present.
type UpdateDocumentInput struct {
	Title         *string                 `json:"title" validate:"omitempty,max=255"`
	Content       *string                 `json:"content" validate:"omitempty,max=1000000"`
	ContentType   *string                 `json:"content_type" validate:"omitempty,oneof=plain html markdown structured"`
	ContentBlocks *[]models.ContentBlock  `json:"content_blocks"`
	Styles        *map[string]interface{} `json:"styles"`
}

// Empty reports whether no field is set at all.
func (in *UpdateDocumentInput) Empty() bool {
	return in.Title == nil && in.Content == nil && in.ContentType == nil &&
		in.ContentBlocks == nil && in.Styles == nil
}

// CreateDocument creates a document plus its owner grant in one
// transaction. A standalone document gets an implicit owner collaborator
// row; a workspace document inherits its grants from the workspace's roles
// instead. Titles are trimmed; an empty or per-owner duplicate title is
// rejected.
func (ds *DocumentStore) CreateDocument(ownerID uint, in CreateDocumentInput) (*models.Document, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	var count int64
	if err := ds.DB.Model(&models.Document{}).
		Where("owner_id = ? AND title = ?", ownerID, title).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateTitle
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = models.ContentTypePlain
	}

	doc := models.Document{
		Title:         title,
		Content:       in.Content,
		ContentType:   contentType,
		ContentBlocks: in.ContentBlocks,
		Styles:        in.Styles,
		WorkspaceID:   in.WorkspaceID,
		OwnerID:       ownerID,
	}

	tx := ds.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	if err := tx.Create(&doc).Error; err != nil {
		tx.Rollback()
		// A concurrent create can still trip the unique index; report it as
		// the same conflict the pre-check would have caught.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	if doc.WorkspaceID == nil {
		owner := models.DocumentCollaborator{
			DocumentID: doc.ID,
			UserID:     ownerID,
			Role:       models.CollaboratorOwner,
		}
		if err := tx.Create(&owner).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	ds.Logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"owner_id":    ownerID,
	}).Debug("document created with owner grant")
	return &doc, nil
}

// GetDocument fetches a document by ID.
func (ds *DocumentStore) GetDocument(id uint) (*models.Document, error) {
	var doc models.Document
	if err := ds.DB.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// ListByOwner returns a page of the user's own documents.
func (ds *DocumentStore) ListByOwner(ownerID uint, skip, limit int) ([]models.Document, error) {
	var docs []models.Document
	err := ds.DB.Where("owner_id = ?", ownerID).
		Order("id").Offset(skip).Limit(limit).Find(&docs).Error
	return docs, err
}

// ListByWorkspace returns a page of a workspace's documents.
func (ds *DocumentStore) ListByWorkspace(workspaceID uint, skip, limit int) ([]models.Document, error) {
	var docs []models.Document
	err := ds.DB.Where("workspace_id = ?", workspaceID).
		Order("id").Offset(skip).Limit(limit).Find(&docs).Error
	return docs, err
}

// ListSharedWith returns documents where the user is a non-owner
// collaborator.
func (ds *DocumentStore) ListSharedWith(userID uint, skip, limit int) ([]models.Document, error) {
	var docs []models.Document
	err := ds.DB.
		Joins("JOIN document_collaborators dc ON dc.document_id = documents.id").
		Where("dc.user_id = ? AND dc.role <> ?", userID, models.CollaboratorOwner).
		Order("documents.id").Offset(skip).Limit(limit).
		Find(&docs).Error
	return docs, err
}

// UpdateDocument applies a partial field set. Title updates re-validate
// emptiness and per-owner uniqueness, excluding the document's own row.
func (ds *DocumentStore) UpdateDocument(id uint, in UpdateDocumentInput) (*models.Document, error) {
	if in.Empty() {
		return nil, ErrEmptyUpdate
	}

	doc, err := ds.GetDocument(id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		var count int64
		if err := ds.DB.Model(&models.Document{}).
			Where("owner_id = ? AND title = ? AND id <> ?", doc.OwnerID, title, doc.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateTitle
		}
		doc.Title = title
	}
	if in.Content != nil {
		doc.Content = *in.Content
	}
	if in.ContentType != nil {
		doc.ContentType = *in.ContentType
	}
	if in.ContentBlocks != nil {
		doc.ContentBlocks = *in.ContentBlocks
	}
	if in.Styles != nil {
		doc.Styles = *in.Styles
	}

	if err := ds.DB.Save(doc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTitle
		}
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document and cascades to its collaborators and
// share links in one transaction.
func (ds *DocumentStore) DeleteDocument(id uint) error {
	doc, err := ds.GetDocument(id)
	if err != nil {
		return err
	}

	tx := ds.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	// Hard deletes throughout: the unique indexes do not carry deleted_at,
	// so a soft-deleted row would keep the title and collaborator slots
	// occupied forever.
	if err := tx.Unscoped().Where("document_id = ?", doc.ID).Delete(&models.DocumentCollaborator{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Unscoped().Where("document_id = ?", doc.ID).Delete(&models.ShareLink{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Unscoped().Delete(doc).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// SearchDocuments matches documents whose title or content contains the
// query as a case-insensitive substring, optionally scoped to one owner.
func (ds *DocumentStore) SearchDocuments(query string, ownerID *uint, skip, limit int) ([]models.Document, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	q := ds.DB.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}

	var docs []models.Document
	err := q.Order("id").Offset(skip).Limit(limit).Find(&docs).Error
	return docs, err
}

// ListCollaborators returns every collaborator row for a document with the
// user relation populated.
func (ds *DocumentStore) ListCollaborators(documentID uint) ([]models.DocumentCollaborator, error) {
	var collabs []models.DocumentCollaborator
	err := ds.DB.Preload("User").
		Where("document_id = ?", documentID).
		Order("id").Find(&collabs).Error
	return collabs, err
}

// AddCollaborator grants a user an editor or reader role on a document.
// The owner cannot be re-added and an existing collaborator is a conflict.
func (ds *DocumentStore) AddCollaborator(documentID, userID uint, role string) (*models.DocumentCollaborator, error) {
	if !models.ValidCollaboratorRole(role) {
		return nil, ErrInvalidRole
	}

	doc, err := ds.GetDocument(documentID)
	if err != nil {
		return nil, err
	}
	if userID == doc.OwnerID {
		return nil, ErrOwnerConflict
	}

	existing, err := CollaboratorRole(ds.DB, documentID, userID)
	if err != nil {
		return nil, err
	}
	if existing != "" {
		return nil, ErrAlreadyCollaborator
	}

	collab := models.DocumentCollaborator{
		DocumentID: documentID,
		UserID:     userID,
		Role:       role,
	}
	if err := ds.DB.Create(&collab).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCollaborator
		}
		return nil, err
	}
	return &collab, nil
}

// RemoveCollaborator deletes a non-owner collaborator row. The delete is
// unscoped so the (document, user) slot is free for a later re-add or link
// acceptance.
func (ds *DocumentStore) RemoveCollaborator(documentID, userID uint) error {
	var collab models.DocumentCollaborator
	err := ds.DB.Where("document_id = ? AND user_id = ?", documentID, userID).First(&collab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if collab.Role == models.CollaboratorOwner {
		return ErrOwnerImmutable
	}
	return ds.DB.Unscoped().Delete(&collab).Error
}

// UpdateCollaboratorRole changes a non-owner collaborator's role.
func (ds *DocumentStore) UpdateCollaboratorRole(documentID, userID uint, role string) (*models.DocumentCollaborator, error) {
	if !models.ValidCollaboratorRole(role) {
		return nil, ErrInvalidRole
	}

	var collab models.DocumentCollaborator
	err := ds.DB.Where("document_id = ? AND user_id = ?", documentID, userID).First(&collab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if collab.Role == models.CollaboratorOwner {
		return nil, ErrOwnerImmutable
	}

	collab.Role = role
	if err := ds.DB.Save(&collab).Error; err != nil {
		return nil, err
	}
	return &collab, nil
}

// CreateShareLink issues a bearer token granting role on a document,
// optionally expiring after ttlHours (capped by maxTTLHours).
func (ds *DocumentStore) CreateShareLink(documentID, createdBy uint, role string, ttlHours *int, maxTTLHours int) (*models.ShareLink, error) {
	if !models.ValidCollaboratorRole(role) {
		return nil, ErrInvalidRole
	}
	if _, err := ds.GetDocument(documentID); err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if ttlHours != nil {
		if *ttlHours <= 0 || *ttlHours > maxTTLHours {
			return nil, ErrInvalidTTL
		}
		t := time.Now().Add(time.Duration(*ttlHours) * time.Hour)
		expiresAt = &t
	}

	token, err := GenerateShareToken()
	if err != nil {
		return nil, err
	}

	link := models.ShareLink{
		DocumentID: documentID,
		Token:      token,
		Role:       role,
		CreatedBy:  createdBy,
		ExpiresAt:  expiresAt,
		IsActive:   true,
	}
	if err := ds.DB.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListShareLinks returns the active links for a document.
func (ds *DocumentStore) ListShareLinks(documentID uint) ([]models.ShareLink, error) {
	var links []models.ShareLink
	err := ds.DB.Where("document_id = ? AND is_active = ?", documentID, true).
		Order("id").Find(&links).Error
	return links, err
}

// RevokeShareLink soft-disables a link; the row stays queryable.
func (ds *DocumentStore) RevokeShareLink(documentID uint, token string) error {
	var link models.ShareLink
	err := ds.DB.Where("document_id = ? AND token = ?", documentID, token).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	link.IsActive = false
	return ds.DB.Save(&link).Error
}

// AcceptShareLink redeems a token for the accepting user:
//
//	owner          -> conflict, the owner cannot be altered via link
//	different role -> upgraded in place to the link's role
//	same role      -> conflict, signalled as a no-op
//	no row         -> a new collaborator is created
//
// The lookup and the collaborator write share one transaction.
func (ds *DocumentStore) AcceptShareLink(token string, userID uint) (*models.DocumentCollaborator, error) {
	tx := ds.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var link models.ShareLink
	err := tx.Where("token = ? AND is_active = ?", token, true).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return nil, ErrInvalidOrExpired
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if link.Expired(time.Now()) {
		tx.Rollback()
		return nil, ErrInvalidOrExpired
	}

	var doc models.Document
	if err := tx.Select("owner_id").First(&doc, link.DocumentID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if doc.OwnerID == userID {
		tx.Rollback()
		return nil, ErrAlreadyOwner
	}

	var collab models.DocumentCollaborator
	err = tx.Where("document_id = ? AND user_id = ?", link.DocumentID, userID).First(&collab).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		collab = models.DocumentCollaborator{
			DocumentID: link.DocumentID,
			UserID:     userID,
			Role:       link.Role,
		}
		if err := tx.Create(&collab).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	case err != nil:
		tx.Rollback()
		return nil, err
	case collab.Role == link.Role:
		tx.Rollback()
		return nil, ErrSameRole
	default:
		collab.Role = link.Role
		if err := tx.Save(&collab).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	ds.Logger.WithFields(logrus.Fields{
		"document_id": link.DocumentID,
		"user_id":     userID,
		"role":        collab.Role,
	}).Debug("share link redeemed")
	return &collab, nil
}
