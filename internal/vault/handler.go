package vault

import (
	"errors"
	"math/big"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/peg-vault/peg_vault/internal/oracle"
)

// Handler exposes vault HTTP endpoints. Amounts cross the wire as decimal
// strings of integral base units.
type Handler struct {
	service *Service
}

// NewHandler builds a vault HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type depositRequest struct {
	Amount  string `json:"amount"`
	Payment string `json:"payment"`
}

type withdrawRequest struct {
	Repayment string `json:"repayment"`
}

type recordResponse struct {
	Depositor        string `json:"depositor"`
	StablecoinDebt   string `json:"stablecoin_debt"`
	CollateralAmount string `json:"collateral_amount"`
}

// Deposit custodies collateral and mints stablecoin for the caller.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}
	payment, err := parseAmount(req.Payment)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payment")
	}
	depositor, _ := c.Locals("account_id").(string)

	res, err := h.service.Deposit(c.UserContext(), depositor, amount, payment)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"depositor":         depositor,
		"minted":            res.Minted.String(),
		"stablecoin_debt":   res.Record.StablecoinDebt.String(),
		"collateral_amount": res.Record.CollateralAmount.String(),
		"rate":              res.Rate.String(),
		"round_id":          res.Rate.RoundID(),
		"completed_at":      res.CompletedAt,
	})
}

// Withdraw burns the repayment and releases the caller's collateral.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req withdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	repayment, err := parseAmount(req.Repayment)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid repayment")
	}
	depositor, _ := c.Locals("account_id").(string)

	res, err := h.service.Withdraw(c.UserContext(), depositor, repayment)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"depositor":           depositor,
		"collateral_released": res.CollateralReleased.String(),
		"stablecoin_debt":     res.Record.StablecoinDebt.String(),
		"collateral_amount":   res.Record.CollateralAmount.String(),
		"rate":                res.Rate.String(),
		"round_id":            res.Rate.RoundID(),
		"completed_at":        res.CompletedAt,
	})
}

// Vault returns the caller's record.
func (h *Handler) Vault(c *fiber.Ctx) error {
	depositor, _ := c.Locals("account_id").(string)
	record, err := h.service.Vault(c.UserContext(), depositor)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(recordResponse{
		Depositor:        depositor,
		StablecoinDebt:   record.StablecoinDebt.String(),
		CollateralAmount: record.CollateralAmount.String(),
	})
}

// CurrentRate reports the normalized exchange rate and its round metadata.
func (h *Handler) CurrentRate(c *fiber.Ctx) error {
	rate, err := h.service.CurrentRate(c.UserContext())
	if err != nil {
		return mapServiceError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"rate":     rate.String(),
		"decimals": rateDecimals,
		"round_id": rate.RoundID(),
	})
}

// EstimateCollateral previews the collateral a repayment would release.
func (h *Handler) EstimateCollateral(c *fiber.Ctx) error {
	amount, err := parseAmount(c.Query("stablecoin"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid stablecoin amount")
	}
	estimate, err := h.service.EstimateCollateral(c.UserContext(), amount)
	if err != nil {
		return mapServiceError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"stablecoin": amount.String(),
		"collateral": estimate.String(),
	})
}

// EstimateStablecoin previews the stablecoin a deposit would mint.
func (h *Handler) EstimateStablecoin(c *fiber.Ctx) error {
	amount, err := parseAmount(c.Query("collateral"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid collateral amount")
	}
	estimate, err := h.service.EstimateStablecoin(c.UserContext(), amount)
	if err != nil {
		return mapServiceError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"collateral": amount.String(),
		"stablecoin": estimate.String(),
	})
}

type priceFeedRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key"`
}

// UpdatePriceFeed swaps the oracle endpoint. Owner only.
func (h *Handler) UpdatePriceFeed(c *fiber.Ctx) error {
	var req priceFeedRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.URL) == "" {
		return fiber.NewError(http.StatusBadRequest, "url is required")
	}
	caller, _ := c.Locals("account_id").(string)

	feed := oracle.NewHTTPFeed(nil, req.URL, req.APIKey)
	if err := h.service.UpdatePriceFeed(caller, feed); err != nil {
		return mapServiceError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"price_feed": feed.Endpoint()})
}

type ownershipRequest struct {
	NewOwner string `json:"new_owner"`
}

// TransferOwnership hands the owner role to another account. Owner only.
func (h *Handler) TransferOwnership(c *fiber.Ctx) error {
	var req ownershipRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	caller, _ := c.Locals("account_id").(string)

	if err := h.service.TransferOwnership(caller, strings.TrimSpace(req.NewOwner)); err != nil {
		return mapServiceError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"owner": h.service.Owner()})
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, errors.New("amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || amount.Sign() < 0 {
		return nil, errors.New("invalid amount")
	}
	return amount, nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrIncorrectPayment):
		return fiber.NewError(http.StatusBadRequest, "payment does not match declared amount")
	case errors.Is(err, ErrWithdrawLimitExceeded):
		return fiber.NewError(http.StatusUnprocessableEntity, "withdraw limit exceeded")
	case errors.Is(err, ErrInsufficientBalance):
		return fiber.NewError(http.StatusUnprocessableEntity, "insufficient stablecoin balance")
	case errors.Is(err, ErrUnauthorized):
		return fiber.NewError(http.StatusForbidden, "caller is not the vault owner")
	case errors.Is(err, ErrOracleFailure):
		return fiber.NewError(http.StatusBadGateway, "price feed unavailable")
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, "amount must be non-negative")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
