package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"docuhub/models"
	"docuhub/utils"
)

type MembershipController struct {
	DB     *gorm.DB
	Logger *logrus.Entry
}

func NewMembershipController(db *gorm.DB) *MembershipController {
	return &MembershipController{
		DB:     db,
		Logger: utils.NewLogger("memberships"),
	}
}

type AddMemberRequest struct {
	UserID uint `json:"user_id" validate:"required"`
	RoleID uint `json:"role_id" validate:"required"`
}

type UpdateMemberRoleRequest struct {
	RoleID uint `json:"role_id" validate:"required"`
}

// AddMember enrolls a user into the workspace under a role. Requires the
// manage_members permission. The workspace creator cannot be re-added.
func (mc *MembershipController) AddMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))

	var workspace models.Workspace
	if err := mc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}

	if err := utils.CheckPermission(mc.DB, user.ID, utils.WorkspaceScope(workspaceID), models.PermissionManageMembers); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req AddMemberRequest
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

	var target models.User
	if err := mc.DB.First(&target, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var role models.Role
	if err := mc.DB.Where("id = ? AND workspace_id = ?", req.RoleID, workspaceID).
		First(&role).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Role not found in this workspace",
		})
	}

	if target.ID == workspace.OwnerID {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": utils.ErrCreatorMembershipLock.Error(),
		})
	}

	var existing models.Membership
	if err := mc.DB.Where("user_id = ? AND workspace_id = ?", target.ID, workspaceID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": utils.ErrAlreadyMember.Error(),
		})
	}

	membership := models.Membership{
		UserID:      target.ID,
		WorkspaceID: workspaceID,
		RoleID:      role.ID,
	}
	if err := mc.DB.Create(&membership).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add member",
		})
	}
	membership.Role = role

	mc.Logger.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"user_id":      target.ID,
		"role":         role.Name,
	}).Info("member added")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(membership))
}

// GetMembers lists a workspace's memberships with their roles. Any member
// can read the list.
func (mc *MembershipController) GetMembers(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))

	var workspace models.Workspace
	if err := mc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}

	var membership models.Membership
	if err := mc.DB.Where("user_id = ? AND workspace_id = ?", user.ID, workspaceID).
		First(&membership).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not a member of this workspace",
		})
	}

	var memberships []models.Membership
	if err := mc.DB.Preload("Role").Preload("User").
		Where("workspace_id = ?", workspaceID).
		Find(&memberships).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list members",
		})
	}

	return c.JSON(utils.SuccessResponse(memberships))
}

// UpdateMemberRole changes a member's role. Requires manage_members; the
// workspace creator's membership is immutable.
func (mc *MembershipController) UpdateMemberRole(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))
	memberID := utils.ParseUint(c.Params("userId"))

	var workspace models.Workspace
	if err := mc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}

	if err := utils.CheckPermission(mc.DB, user.ID, utils.WorkspaceScope(workspaceID), models.PermissionManageMembers); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if memberID == workspace.OwnerID {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": utils.ErrCreatorMembershipLock.Error(),
		})
	}

	var req UpdateMemberRoleRequest
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

	var membership models.Membership
	if err := mc.DB.Where("user_id = ? AND workspace_id = ?", memberID, workspaceID).
		First(&membership).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": utils.ErrMembershipNotFound.Error(),
		})
	}

	var role models.Role
	if err := mc.DB.Where("id = ? AND workspace_id = ?", req.RoleID, workspaceID).
		First(&role).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Role not found in this workspace",
		})
	}

	if err := mc.DB.Model(&membership).Update("role_id", role.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update member role",
		})
	}
	membership.Role = role

	return c.JSON(utils.SuccessResponse(membership))
}

// RemoveMember drops a membership. Requires manage_members; the workspace
// creator cannot be removed.
func (mc *MembershipController) RemoveMember(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	workspaceID := utils.ParseUint(c.Params("id"))
	memberID := utils.ParseUint(c.Params("userId"))

	var workspace models.Workspace
	if err := mc.DB.First(&workspace, workspaceID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Workspace not found",
		})
	}

	if err := utils.CheckPermission(mc.DB, user.ID, utils.WorkspaceScope(workspaceID), models.PermissionManageMembers); err != nil {
		return c.Status(utils.ErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if memberID == workspace.OwnerID {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": utils.ErrCreatorMembershipLock.Error(),
		})
	}

	var membership models.Membership
	if err := mc.DB.Where("user_id = ? AND workspace_id = ?", memberID, workspaceID).
		First(&membership).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": utils.ErrMembershipNotFound.Error(),
		})
	}

	// Unscoped so the (user, workspace) unique slot is free for a re-invite.
	if err := mc.DB.Unscoped().Delete(&membership).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove member",
		})
	}

	mc.Logger.WithFields(logrus.Fields{
		"workspace_id": workspaceID,
		"user_id":      memberID,
	}).Info("member removed")

	return c.JSON(fiber.Map{"message": "Member removed"})
}
