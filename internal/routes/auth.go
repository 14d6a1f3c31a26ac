package routes

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/peg-vault/peg_vault/internal/auth"
	"github.com/peg-vault/peg_vault/internal/config"
)

// RegisterAuthRoutes wires the development token helper. Outside dev
// environments tokens are issued by the surrounding platform and this endpoint
// is not mounted.
func RegisterAuthRoutes(r fiber.Router, cfg config.Config) {
	if !cfg.IsDev() {
		return
	}
	group := r.Group("/auth")
	group.Post("/token", func(c *fiber.Ctx) error {
		var req struct {
			Account string `json:"account"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		account := strings.TrimSpace(req.Account)
		if account == "" {
			return fiber.NewError(http.StatusBadRequest, "account is required")
		}
		token, err := auth.Sign(account, []byte(cfg.JWTSecret), cfg.TokenTTL)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"access_token": token,
			"expires_in":   int64(cfg.TokenTTL.Seconds()),
		})
	})
}
