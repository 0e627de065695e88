package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docuhub/models"
	"docuhub/utils"
)

type RoleController struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewRoleController(db *gorm.DB) *RoleController {
	return &RoleController{
		DB:     db,
		Logger: utils.NewLogger("roles"),
	}
}

type UpdateRoleRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=60"`
	Permissions []string `json:"permissions" validate:"omitempty,min=1"`
	IsDefault   *bool    `json:"is_default"`
}

// GetRoles lists a workspace's roles. Any member can read them.
func (rc *RoleController) GetRoles(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))

	var workspace models.Workspace
	if err := rc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}

	var membership models.Membership
	if err := rc.DB.Where("user_id = ? AND workspace_id = ?", user.ID, workspaceID).
		First(&membership).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not a member of this workspace",
		})
	}

	var roles []models.Role
	if err := rc.DB.Where("workspace_id = ?", workspaceID).Order("id").Find(&roles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list roles",
		})
	}

	return c.JSON(utils.SuccessResponse(roles))
}

// UpdateRole renames a role, replaces its permission set or toggles its
// default flag. Workspace owner only. Because memberships reference roles,
// permission edits take effect for every member holding the role.
func (rc *RoleController) UpdateRole(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))
	roleID := utils.ParseUint(c.Params("roleId"))

	var workspace models.Workspace
	if err := rc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}
	if workspace.OwnerID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the workspace owner can modify roles",
		})
	}

	var role models.Role
	if err := rc.DB.Where("id = ? AND workspace_id = ?", roleID, workspaceID).
		First(&role).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Role not found",
		})
	}

	var req UpdateRoleRequest
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
	if req.Name == nil && req.Permissions == nil && req.IsDefault == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": utils.ErrEmptyUpdate.Error(),
		})
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Role name cannot be empty",
			})
		}
		var count int64
		rc.DB.Model(&models.Role{}).
			Where("workspace_id = ? AND name = ? AND id <> ?", workspaceID, name, role.ID).
			Count(&count)
		if count > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A role with this name already exists in the workspace",
			})
		}
		role.Name = name
	}

	if req.Permissions != nil {
		perms := make(models.PermissionList, 0, len(req.Permissions))
		for _, p := range req.Permissions {
			perm := models.Permission(p)
			if !models.ValidPermission(perm) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Unknown permission: " + p,
				})
			}
			if !perms.Contains(perm) {
				perms = append(perms, perm)
			}
		}
		role.Permissions = perms
	}

	if req.IsDefault != nil {
		role.IsDefault = *req.IsDefault
	}

	if err := rc.DB.Save(&role).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update role",
		})
	}

	rc.Logger.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"role_id":      role.ID,
	}).Info("role updated")

	return c.JSON(utils.SuccessResponse(role))
}
