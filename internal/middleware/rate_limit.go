package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// OperationRateLimit caps mutating vault operations per account per minute
// using Redis counters. Fails open when the cache is unavailable so a cache
// outage never blocks withdrawals.
func OperationRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 30
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		account, _ := c.Locals("account_id").(string)
		if account == "" {
			account = c.IP()
		}
		key := "rl:vault:" + account
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many vault operations, try again later")
		}
		return c.Next()
	}
}
