package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docuhub/models"
	"docuhub/utils"
)

// GetDocument returns a single document. Existence is checked before
// authorization so a missing resource never reads as a permission
// problem.
func (dc *DocumentController) GetDocument(c *fiber.Ctx) error {
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

	return c.JSON(utils.SuccessResponse(doc))
}

// GetDocuments lists the caller's own documents, or a workspace's
// documents when workspace_id is supplied.
func (dc *DocumentController) GetDocuments(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	skip, limit := pagination(c.QueryInt("skip", 0), c.QueryInt("limit", 20))

	if workspaceID := utils.ParseUint(c.Query("workspace_id")); workspaceID != 0 {
		if err := utils.CheckPermission(dc.DB, user.ID, utils.WorkspaceScope(workspaceID), models.PermissionViewDocument); err != nil {
			return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		docs, err := dc.Store.ListByWorkspace(workspaceID, skip, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list documents",
			})
		}
		return c.JSON(utils.SuccessResponse(docs))
	}

	docs, err := dc.Store.ListByOwner(user.ID, skip, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list documents",
		})
	}
	return c.JSON(utils.SuccessResponse(docs))
}

// GetSharedDocuments lists documents shared with the caller through a
// non-owner collaborator entry.
func (dc *DocumentController) GetSharedDocuments(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	skip, limit := pagination(c.QueryInt("skip", 0), c.QueryInt("limit", 20))

	docs, err := dc.Store.ListSharedWith(user.ID, skip, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list shared documents",
		})
	}
	return c.JSON(utils.SuccessResponse(docs))
}

// SearchDocuments matches the query against titles and content of the
// caller's own documents, case-insensitively.
func (dc *DocumentController) SearchDocuments(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	skip, limit := pagination(c.QueryInt("skip", 0), c.QueryInt("limit", 20))

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query cannot be empty",
		})
	}

	docs, err := dc.Store.SearchDocuments(query, &user.ID, skip, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}
	return c.JSON(utils.SuccessResponse(docs))
}
