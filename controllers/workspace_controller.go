package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docuhub/models"
	"docuhub/utils"
)

type WorkspaceController struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewWorkspaceController(db *gorm.DB) *WorkspaceController {
	return &WorkspaceController{
		DB:     db,
		Logger: utils.NewLogger("workspaces"),
	}
}

type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type UpdateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// CreateWorkspace creates the workspace, seeds the four canonical roles
// and enrolls the creator as Owner, all in one transaction.
func (wc *WorkspaceController) CreateWorkspace(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CreateWorkspaceRequest
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

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Workspace name cannot be empty",
		})
	}

	var count int64
	wc.DB.Model(&models.Workspace{}).
		Where("owner_id = ? AND name = ?", user.ID, name).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": utils.ErrDuplicateWorkspace.Error(),
		})
	}

	tx := wc.DB.Begin()

	workspace := models.Workspace{
		Name:    name,
		OwnerID: user.ID,
	}
	if err := tx.Create(&workspace).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create workspace",
		})
	}

	if err := utils.SeedWorkspaceRoles(tx, workspace.ID); err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to seed workspace roles",
		})
	}

	var ownerRole models.Role
	if err := tx.Where("workspace_id = ? AND name = ?", workspace.ID, utils.RoleOwner).First(&ownerRole).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve owner role",
		})
	}

	membership := models.Membership{
		UserID:      user.ID,
		WorkspaceID: workspace.ID,
		RoleID:      ownerRole.ID,
	}
	if err := tx.Create(&membership).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to enroll workspace creator",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create workspace",
		})
	}

	wc.Logger.WithFields(logrus.Fields{
		"workspace_id": workspace.ID,
		"owner_id":     user.ID,
	}).Info("workspace created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(workspace))
}

// GetWorkspaces lists workspaces the user belongs to together with the
// role held in each.
func (wc *WorkspaceController) GetWorkspaces(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var memberships []models.Membership
	if err := wc.DB.Preload("Role").
		Where("user_id = ?", user.ID).
		Find(&memberships).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list workspaces",
		})
	}

	type workspaceEntry struct {
		Workspace models.Workspace `json:"workspace"`
		Role      models.Role      `json:"role"`
	}

	entries := make([]workspaceEntry, 0, len(memberships))
	for _, m := range memberships {
		var workspace models.Workspace
		if err := wc.DB.First(&workspace, m.WorkspaceID).Error; err != nil {
			continue
		}
		entries = append(entries, workspaceEntry{Workspace: workspace, Role: m.Role})
	}

	return c.JSON(utils.SuccessResponse(entries))
}

func (wc *WorkspaceController) GetWorkspace(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))

	var workspace models.Workspace
	if err := wc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}

	// Only members can see a workspace
	var membership models.Membership
	if err := wc.DB.Where("user_id = ? AND workspace_id = ?", user.ID, workspaceID).
		First(&membership).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not a member of this workspace",
		})
	}

	return c.JSON(utils.SuccessResponse(workspace))
}

func (wc *WorkspaceController) UpdateWorkspace(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))

	var workspace models.Workspace
	if err := wc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}
	if workspace.OwnerID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the workspace owner can update it",
		})
	}

	var req UpdateWorkspaceRequest
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

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Workspace name cannot be empty",
		})
	}

	var count int64
	wc.DB.Model(&models.Workspace{}).
		Where("owner_id = ? AND name = ? AND id <> ?", user.ID, name, workspace.ID).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": utils.ErrDuplicateWorkspace.Error(),
		})
	}

	if err := wc.DB.Model(&workspace).Update("name", name).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update workspace",
		})
	}

	return c.JSON(utils.SuccessResponse(workspace))
}

// DeleteWorkspace removes the workspace along with its roles, memberships
// and documents. Owner only.
func (wc *WorkspaceController) DeleteWorkspace(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))

	var workspace models.Workspace
	if err := wc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}
	if workspace.OwnerID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the workspace owner can delete it",
		})
	}

	tx := wc.DB.Begin()

	// Hard deletes: soft-deleted rows would still occupy the per-owner name
	// and per-workspace unique indexes.
	var docIDs []uint
	if err := tx.Model(&models.Document{}).
		Where("workspace_id = ?", workspace.ID).
		Pluck("id", &docIDs).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete workspace",
		})
	}
	if len(docIDs) > 0 {
		if err := tx.Unscoped().Where("document_id IN ?", docIDs).Delete(&models.DocumentCollaborator{}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete workspace",
			})
		}
		if err := tx.Unscoped().Where("document_id IN ?", docIDs).Delete(&models.ShareLink{}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete workspace",
			})
		}
		if err := tx.Unscoped().Where("workspace_id = ?", workspace.ID).Delete(&models.Document{}).Error; err != nil {
			tx.Rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete workspace",
			})
		}
	}
	if err := tx.Unscoped().Where("workspace_id = ?", workspace.ID).Delete(&models.Membership{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete workspace",
		})
	}
	if err := tx.Unscoped().Where("workspace_id = ?", workspace.ID).Delete(&models.Role{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete workspace",
		})
	}
	if err := tx.Unscoped().Delete(&workspace).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete workspace",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete workspace",
		})
	}

	wc.Logger.WithField("workspace_id", workspace.ID).Info("workspace deleted")
	return c.JSON(fiber.Map{"message": "Workspace deleted"})
}
