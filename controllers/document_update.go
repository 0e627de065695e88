package controller

import (
	"github.com/gofiber/fiber/v2"

	"docuhub/models"
	"docuhub/utils"
)

// UpdateDocument applies a partial update. Requires the edit_document
// permission in the document's scope.
func (dc *DocumentController) UpdateDocument(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	documentID := utils.ParseUint(c.Params("id"))

	doc, err := dc.Store.GetDocument(documentID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := utils.CheckPermission(dc.DB, user.ID, utils.ScopeForDocument(doc), models.PermissionEditDocument); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var in utils.UpdateDocumentInput
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

	updated, err := dc.Store.UpdateDocument(documentID, in)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(utils.SuccessResponse(updated))
}
