package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ScanRateLimit caps scan submissions per user per minute using Redis if
// available. The corpus comparison is quadratic in practice, so this guards
// the expensive path; it fails open on cache errors.
func ScanRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 10
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		key, _ := c.Locals("user_id").(string)
		if key == "" {
			key = c.IP()
		}
		cacheKey := "rl:scan:" + key
		cnt, err := cache.Incr(c.UserContext(), cacheKey).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), cacheKey, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many scans, try again later")
		}
		return c.Next()
	}
}
