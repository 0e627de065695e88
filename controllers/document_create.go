package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"docuhub/models"
	"docuhub/utils"
)

// CreateDocument creates a document owned by the caller. Documents placed
// in a workspace additionally require the create_document permission
// there.
func (dc *DocumentController) CreateDocument(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var in utils.CreateDocumentInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if in.WorkspaceID != nil {
		var workspace models.Workspace
		if err := dc.DB.First(&workspace, *in.WorkspaceID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Workspace not found",
			})
		}
		if err := utils.CheckPermission(dc.DB, user.ID, utils.WorkspaceScope(workspace.ID), models.PermissionCreateDocument); err != nil {
			return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	doc, err := dc.Store.CreateDocument(user.ID, in)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	dc.Logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"owner_id":    user.ID,
	}).Info("document created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(doc))
}
