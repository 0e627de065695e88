package controller

import (
	"github.com/gofiber/fiber/v2"

	"docuhub/models"
	"docuhub/utils"
)

// DeleteDocument removes a document and its collaborators and share
// links. Requires the delete_document permission in the document's scope.
func (dc *DocumentController) DeleteDocument(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	documentID := utils.ParseUint(c.Params("id"))

	doc, err := dc.Store.GetDocument(documentID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := utils.CheckPermission(dc.DB, user.ID, utils.ScopeForDocument(doc), models.PermissionDeleteDocument); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := dc.Store.DeleteDocument(documentID); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	dc.Logger.WithField("document_id", documentID).Info("document deleted")
	return c.JSON(fiber.Map{"message": "Document deleted"})
}
