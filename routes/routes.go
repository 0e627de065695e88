package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "docuhub/controllers"
	"docuhub/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)
}

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	public := auth.Group("", middleware.AuthRateLimiter())
	public.Post("/register", controller.Register)
	public.Post("/login", controller.Login)
	public.Post("/forgot-password", controller.ForgotPassword)
	public.Post("/reset-password", controller.ResetPassword)
	public.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Post("/change-password", controller.ChangePassword)
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	workspaceController := controller.NewWorkspaceController(db)
	roleController := controller.NewRoleController(db)
	membershipController := controller.NewMembershipController(db)
	documentController := controller.NewDocumentController(db)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Workspace routes
	workspaces := api.Group("/workspaces")
	workspaces.Post("/", workspaceController.CreateWorkspace)
	workspaces.Get("/", workspaceController.GetWorkspaces)
	workspaces.Get("/:id", workspaceController.GetWorkspace)
	workspaces.Put("/:id", workspaceController.UpdateWorkspace)
	workspaces.Delete("/:id", workspaceController.DeleteWorkspace)

	// Role routes nested under workspaces
	workspaces.Get("/:id/roles", roleController.GetRoles)
	workspaces.Put("/:id/roles/:roleId", roleController.UpdateRole)

	// Membership routes nested under workspaces
	workspaces.Post("/:id/members", membershipController.AddMember)
	workspaces.Get("/:id/members", membershipController.GetMembers)
	workspaces.Put("/:id/members/:userId", membershipController.UpdateMemberRole)
	workspaces.Delete("/:id/members/:userId", membershipController.RemoveMember)

	// Document routes
	documents := api.Group("/documents")
	documents.Post("/", documentController.CreateDocument)
	documents.Get("/", documentController.GetDocuments)
	documents.Get("/search", documentController.SearchDocuments)
	documents.Get("/shared", documentController.GetSharedDocuments)
	documents.Get("/:id", documentController.GetDocument)
	documents.Put("/:id", documentController.UpdateDocument)
	documents.Delete("/:id", documentController.DeleteDocument)
	documents.Get("/:id/export", documentController.ExportDocument)

	// Collaborator routes
	documents.Get("/:id/collaborators", documentController.GetCollaborators)
	documents.Post("/:id/collaborators", documentController.AddCollaborator)
	documents.Put("/:id/collaborators/:userId", documentController.UpdateCollaborator)
	documents.Delete("/:id/collaborators/:userId", documentController.RemoveCollaborator)

	// Share link routes
	documents.Post("/:id/share", documentController.CreateShareLink)
	documents.Get("/:id/share", documentController.GetShareLinks)
	documents.Delete("/:id/share/:token", documentController.RevokeShareLink)
	api.Post("/share/:token/accept", middleware.ShareAcceptLimiter(), documentController.AcceptShareLink)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
