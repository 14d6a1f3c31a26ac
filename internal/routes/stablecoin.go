package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/peg-vault/peg_vault/internal/stablecoin"
)

// RegisterStablecoinRoutes wires the pegged-asset balance and allowance endpoints.
func RegisterStablecoinRoutes(r fiber.Router, h *stablecoin.Handler) {
	group := r.Group("/stablecoin")
	group.Get("/balance", h.Balance)
	group.Post("/approvals", h.Approve)
}
