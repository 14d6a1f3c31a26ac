package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/peg-vault/peg_vault/internal/vault"
)

// RegisterAdminRoutes wires owner-only endpoints. Authorization is enforced by
// the vault service itself against the current owner account.
func RegisterAdminRoutes(r fiber.Router, h *vault.Handler) {
	group := r.Group("/admin")
	group.Put("/price-feed", h.UpdatePriceFeed)
	group.Post("/ownership", h.TransferOwnership)
}
