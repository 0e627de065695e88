package main

import (
	"context"
	"log"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"docuhub/config"
	"docuhub/routes"
	"docuhub/utils"
	"docuhub/worker"
)

func main() {
	// Load configuration
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	utils.SetLogLevel(config.AppConfig.LogLevel)
	utils.JWTSecret = []byte(config.AppConfig.JWTSecret)
	utils.InitEmailConfig(utils.EmailConfig{
		SMTPHost:        config.AppConfig.SMTPHost,
		SMTPPort:        config.AppConfig.SMTPPort,
		SMTPUsername:    config.AppConfig.SMTPUsername,
		SMTPPassword:    config.AppConfig.SMTPPassword,
		FromEmail:       config.AppConfig.FromEmail,
		FrontendBaseURL: config.AppConfig.FrontendBaseURL,
	})

	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			log.Printf("Sentry initialization failed: %v", err)
		}
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.FrontendBaseURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Start the share link expiry worker
	shareLinkWorker := worker.NewShareLinkWorker(config.DB, config.AppConfig.ShareLinkSweepEvery)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go shareLinkWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, config.DB)

	// Start server
	log.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
