package controller

import (
	"github.com/gofiber/fiber/v2"

	"docuhub/models"
	"docuhub/utils"
)

// ExportDocument renders a document's content as the neutral element
// sequence used by export back-ends. Requires view permission.
func (dc *DocumentController) ExportDocument(c *fiber.Ctx) error {
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

	elements := utils.ExportToElements(doc)
	return c.JSON(utils.SuccessResponse(fiber.Map{
		"document_id": doc.ID,
		"title":       doc.Title,
		"elements":    elements,
	}))
}
