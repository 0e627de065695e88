package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"docuhub/config"
	"docuhub/models"
	"docuhub/utils"
)

type CreateShareLinkRequest struct {
	Role     string `json:"role" validate:"required,oneof=editor reader"`
	TTLHours *int   `json:"ttl_hours" validate:"omitempty,min=1"`
}

// CreateShareLink issues a bearer token granting the given role to anyone
// who redeems it. Requires manage_members in the document's scope.
func (dc *DocumentController) CreateShareLink(c *fiber.Ctx) error {
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

	var req CreateShareLinkRequest
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

	link, err := dc.Store.CreateShareLink(documentID, user.ID, req.Role, req.TTLHours, config.AppConfig.ShareLinkMaxTTLHours)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	dc.Logger.WithFields(logrus.Fields{
		"document_id": documentID,
		"role":        req.Role,
	}).Info("share link created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(link))
}

// GetShareLinks lists a document's active share links.
func (dc *DocumentController) GetShareLinks(c *fiber.Ctx) error {
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

	links, err := dc.Store.ListShareLinks(documentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list share links",
		})
	}
	return c.JSON(utils.SuccessResponse(links))
}

// RevokeShareLink deactivates a share link so it can no longer be
// redeemed. Access already granted through it is untouched.
func (dc *DocumentController) RevokeShareLink(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	documentID := utils.ParseUint(c.Params("id"))
	token := c.Params("token")

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

	if err := dc.Store.RevokeShareLink(documentID, token); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	dc.Logger.WithField("document_id", documentID).Info("share link revoked")
	return c.JSON(fiber.Map{"message": "Share link revoked"})
}

// AcceptShareLink redeems a share token for the calling user. A valid
// token grants the link's role, upgrades a differing collaborator role in
// place, and leaves everything untouched for the document owner or a
// collaborator already holding the role.
func (dc *DocumentController) AcceptShareLink(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	token := c.Params("token")

	collaborator, err := dc.Store.AcceptShareLink(token, user.ID)
	if err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	dc.Logger.WithFields(logrus.Fields{
		"document_id": collaborator.DocumentID,
		"user_id":     user.ID,
		"role":        collaborator.Role,
	}).Info("share link accepted")

	return c.JSON(utils.SuccessResponse(collaborator))
}
