package stablecoin

import (
	"errors"
	"math/big"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes stablecoin HTTP endpoints for the authenticated holder.
type Handler struct {
	ledger Ledger
}

// NewHandler builds a stablecoin HTTP handler.
func NewHandler(ledger Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// Balance returns the caller's stablecoin balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	account, _ := c.Locals("account_id").(string)
	balance, err := h.ledger.BalanceOf(c.UserContext(), account)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"account": account,
		"balance": balance.String(),
	})
}

type approveRequest struct {
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

// Approve sets the spender's allowance over the caller's balance.
func (h *Handler) Approve(c *fiber.Ctx) error {
	var req approveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	spender := strings.TrimSpace(req.Spender)
	if spender == "" {
		return fiber.NewError(http.StatusBadRequest, "spender is required")
	}
	amount, ok := new(big.Int).SetString(strings.TrimSpace(req.Amount), 10)
	if !ok || amount.Sign() < 0 {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}
	account, _ := c.Locals("account_id").(string)

	if err := h.ledger.Approve(c.UserContext(), account, spender, amount); err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"owner":   account,
		"spender": spender,
		"amount":  amount.String(),
	})
}
