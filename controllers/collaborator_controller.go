package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"docuhub/models"
	"docuhub/utils"
)

type AddCollaboratorRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=editor reader"`
}

type UpdateCollaboratorRequest struct {
	Role string `json:"role" validate:"required,oneof=editor reader"`
}

// GetCollaborators lists a document's collaborators. Requires view
// permission in the document's scope.
func (dc *DocumentController) GetCollaborators(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	documentID := utils.ParseUint(c.Params("id"))

	doc, err := dc.Store.GetDocument(documentID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := utils.CheckPermission(dc.DB, user.ID, utils.ScopeForDocument(doc), models.PermissionViewDocument); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	collaborators, err := dc.Store.ListCollaborators(documentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list collaborators",
		})
	}
	return c.JSON(utils.SuccessResponse(collaborators))
}

// AddCollaborator grants a user editor or reader access to a document.
// Requires manage_members; adding yourself or the document owner is
// rejected.
func (dc *DocumentController) AddCollaborator(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	documentID := utils.ParseUint(c.Params("id"))

	doc, err := dc.Store.GetDocument(documentID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := utils.CheckPermission(dc.DB, user.ID, utils.ScopeForDocument(doc), models.PermissionManageMembers); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req AddCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if req.UserID == user.ID {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": utils.ErrSelfAdd.Error(),
		})
	}

	var target models.User
	if err := dc.DB.First(&target, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	collaborator, err := dc.Store.AddCollaborator(documentID, target.ID, req.Role)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := utils.SendCollaboratorAddedEmail(target.Email, doc.Title, req.Role); err != nil {
		utils.LogError("collaborator_email_failed", err, map[string]interface{}{
			"document_id": documentID,
			"user_id":     target.ID,
		})
	}

	dc.Logger.WithFields(logrus.Fields{
		"document_id": documentID,
		"user_id":     target.ID,
		"role":        req.Role,
	}).Info("collaborator added")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(collaborator))
}

// UpdateCollaborator changes a collaborator's role. The owner entry is
// immutable.
func (dc *DocumentController) UpdateCollaborator(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	documentID := utils.ParseUint(c.Params("id"))
	targetID := utils.ParseUint(c.Params("userId"))

	doc, err := dc.Store.GetDocument(documentID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := utils.CheckPermission(dc.DB, user.ID, utils.ScopeForDocument(doc), models.PermissionManageMembers); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req UpdateCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	collaborator, err := dc.Store.UpdateCollaboratorRole(documentID, targetID, req.Role)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(utils.SuccessResponse(collaborator))
}

// RemoveCollaborator revokes a user's access to a document. The owner
// entry cannot be removed.
func (dc *DocumentController) RemoveCollaborator(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	documentID := utils.ParseUint(c.Params("id"))
	targetID := utils.ParseUint(c.Params("userId"))

	doc, err := dc.Store.GetDocument(documentID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := utils.CheckPermission(dc.DB, user.ID, utils.ScopeForDocument(doc), models.PermissionManageMembers); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := dc.Store.RemoveCollaborator(documentID, targetID); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	dc.Logger.WithFields(logrus.Fields{
		"document_id": documentID,
		"user_id":     targetID,
	}).Info("collaborator removed")

	return c.JSON(fiber.Map{"message": "Collaborator removed"})
}
