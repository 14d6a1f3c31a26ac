package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/peg-vault/peg_vault/internal/vault"
)

// RegisterVaultRoutes wires the deposit/withdraw/record endpoints. Mutating
// operations go through the per-account rate limiter when one is provided.
func RegisterVaultRoutes(r fiber.Router, h *vault.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/vault")
	if rateLimiter != nil {
		group.Post("/deposits", rateLimiter, h.Deposit)
		group.Post("/withdrawals", rateLimiter, h.Withdraw)
	} else {
		group.Post("/deposits", h.Deposit)
		group.Post("/withdrawals", h.Withdraw)
	}
	group.Get("", h.Vault)
}
