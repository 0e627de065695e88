package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"docuhub/models"
)

var (
	DB        *gorm.DB
	AppConfig Config
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type Config struct {
	Environment          string        `json:"environment"`
	ServerPort           string        `json:"server_port"`
	JWTSecret            string        `json:"-"`
	LogLevel             string        `json:"log_level"`
	SentryDSN            string        `json:"-"`
	DBHost               string        `json:"db_host"`
	DBPort               string        `json:"db_port"`
	DBUser               string        `json:"db_user"`
	DBPassword           string        `json:"-"`
	DBName               string        `json:"db_name"`
	DBSSLMode            string        `json:"db_ssl_mode"`
	DBMaxIdleConns       int           `json:"db_max_idle_conns"`
	DBMaxOpenConns       int           `json:"db_max_open_conns"`
	SMTPHost             string        `json:"smtp_host"`
	SMTPPort             int           `json:"smtp_port"`
	SMTPUsername         string        `json:"smtp_username"`
	SMTPPassword         string        `json:"-"`
	FromEmail            string        `json:"from_email"`
	FrontendBaseURL      string        `json:"frontend_base_url"`
	AuthRateLimit        int           `json:"auth_rate_limit"`
	ShareAcceptRateLimit int           `json:"share_accept_rate_limit"`
	ShareLinkMaxTTLHours int           `json:"share_link_max_ttl_hours"`
	ShareLinkSweepEvery  time.Duration `json:"share_link_sweep_every"`
	Redis                RedisConfig   `json:"redis"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:          getEnv("ENVIRONMENT", "development"),
		ServerPort:           getEnv("SERVER_PORT", "5000"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBName:               getEnv("DB_NAME", "docuhub"),
		DBSSLMode:            getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns:       getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:       getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		FromEmail:            getEnv("FROM_EMAIL", "no-reply@docuhub.local"),
		FrontendBaseURL:      getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		AuthRateLimit:        getEnvAsInt("AUTH_RATE_LIMIT", 20),
		ShareAcceptRateLimit: getEnvAsInt("SHARE_ACCEPT_RATE_LIMIT", 30),
		ShareLinkMaxTTLHours: getEnvAsInt("SHARE_LINK_MAX_TTL_HOURS", 720),
		ShareLinkSweepEvery:  time.Duration(getEnvAsInt("SHARE_LINK_SWEEP_MINUTES", 15)) * time.Minute,
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ADDRESS", "") != "",
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	// Validate required configurations
	if AppConfig.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if AppConfig.Environment == "production" && AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}

	logConfig()
	return nil
}

func ConnectDB() error {
	log.Println("Attempting to connect to database...")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
	log.Println("Using connection string:", maskPassword(dsn))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	log.Println("✅ Successfully connected to the database")
	log.Println("🔄 Starting database migration...")
	if err := MigrateDB(DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	log.Println("✅ Database migration completed")
	return nil
}

// MigrateDB applies the schema. Exported so tests can migrate an
// in-memory database with the same model set.
func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Workspace{},
		&models.Role{},
		&models.Membership{},
		&models.Document{},
		&models.DocumentCollaborator{},
		&models.ShareLink{},
	)
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return fallback
	}
	return value
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	log.Println("🔧 Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("Database: %s@%s:%s/%s",
		AppConfig.DBUser,
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBName)
	log.Printf("Redis: enabled=%t", AppConfig.Redis.Enabled)
}
