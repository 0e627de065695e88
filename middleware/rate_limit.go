package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"docuhub/config"
	"docuhub/models"
	"docuhub/utils"
)

// AuthRateLimiter throttles credential endpoints per client IP.
func AuthRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.AppConfig.AuthRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "auth:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			utils.LogEvent("rate_limit_hit", map[string]interface{}{
				"endpoint":   c.Path(),
				"ip":         c.IP(),
				"user_agent": c.Get("User-Agent"),
			})

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many attempts. Please wait before trying again.",
				"retry_after": "1 minute",
			})
		},
		Storage: createRateLimitStorage(),
	})
}

// ShareAcceptLimiter throttles share-link redemption per authenticated
// user so tokens cannot be brute-forced through an account.
func ShareAcceptLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.AppConfig.ShareAcceptRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			user := c.Locals("user").(*models.User)
			return fmt.Sprintf("share-accept:%d", user.ID)
		},
		LimitReached: func(c *fiber.Ctx) error {
			user := c.Locals("user").(*models.User)
			utils.LogEvent("rate_limit_hit", map[string]interface{}{
				"user_id":    user.ID,
				"endpoint":   c.Path(),
				"ip":         c.IP(),
				"user_agent": c.Get("User-Agent"),
			})

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many share link attempts. Please wait before trying again.",
				"retry_after": "1 minute",
			})
		},
		Storage: createRateLimitStorage(),
	})
}

// createRateLimitStorage creates a persistent storage for rate limiting
func createRateLimitStorage() fiber.Storage {
	if config.AppConfig.Redis.Enabled {
		return NewRedisStorage(config.AppConfig.Redis)
	}
	return nil
}

// RedisStorage implements fiber.Storage for Redis
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(config config.RedisConfig) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(&redis.Options{
			Addr:     config.Address,
			Password: config.Password,
			DB:       config.DB,
		}),
	}
}

func (r *RedisStorage) Get(key string) ([]byte, error) {
	return r.client.Get(context.Background(), key).Bytes()
}

func (r *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	return r.client.Set(context.Background(), key, val, exp).Err()
}

func (r *RedisStorage) Delete(key string) error {
	return r.client.Del(context.Background(), key).Err()
}

func (r *RedisStorage) Reset() error {
	return r.client.FlushDB(context.Background()).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
