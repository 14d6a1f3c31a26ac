package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/peg-vault/peg_vault/internal/auth"
	"github.com/peg-vault/peg_vault/internal/config"
)

// JWTAuth returns a middleware that validates bearer tokens and exposes the
// authenticated account through the "account_id" local. Handlers only ever act
// on that account, so no caller can touch another depositor's record.
func JWTAuth(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		account, err := auth.Verify(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals("account_id", account)
		return c.Next()
	}
}
