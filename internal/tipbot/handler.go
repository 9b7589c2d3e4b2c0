package tipbot

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chaintip/chaintip/internal/domain"
)

// Handler exposes the tipbot operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs the tipbot handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type bindRequest struct {
	PlatformID int64 `json:"platform_id"`
	Deposit    int64 `json:"deposit"`
}

type forceUnbindRequest struct {
	Wallet string `json:"wallet"`
}

type tipRequest struct {
	PlatformID int64 `json:"platform_id"`
	Amount     int64 `json:"amount"`
}

type tipFromRequest struct {
	FromPlatformID int64 `json:"from_platform_id"`
	ToPlatformID   int64 `json:"to_platform_id"`
	Amount         int64 `json:"amount"`
}

type tipResponse struct {
	TransactionID  string `json:"transaction_id"`
	FromPlatformID int64  `json:"from_platform_id"`
	ToPlatformID   int64  `json:"to_platform_id"`
	Amount         int64  `json:"amount"`
	FromBalance    int64  `json:"from_balance"`
	CompletedAt    string `json:"completed_at"`
}

// Bind binds the caller's wallet to a platform id, crediting any deposit.
func (h *Handler) Bind(c *fiber.Ctx) error {
	var req bindRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Deposit < 0 {
		return fiber.NewError(http.StatusBadRequest, "deposit must be non-negative")
	}
	caller := callerWallet(c)
	if caller == "" {
		return fiber.NewError(http.StatusUnauthorized, "caller wallet missing")
	}

	if err := h.service.Bind(c.UserContext(), caller, domain.PlatformID(req.PlatformID), req.Deposit); err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"wallet":      string(caller),
		"platform_id": req.PlatformID,
		"deposit":     req.Deposit,
	})
}

// Unbind removes the caller's binding and pays out their custodial balance.
func (h *Handler) Unbind(c *fiber.Ctx) error {
	caller := callerWallet(c)
	if caller == "" {
		return fiber.NewError(http.StatusUnauthorized, "caller wallet missing")
	}
	if err := h.service.Unbind(c.UserContext(), caller); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ForceUnbind is the owner-only unbind of an arbitrary wallet.
func (h *Handler) ForceUnbind(c *fiber.Ctx) error {
	var req forceUnbindRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Wallet == "" {
		return fiber.NewError(http.StatusBadRequest, "wallet is required")
	}
	caller := callerWallet(c)

	if err := h.service.ForceUnbind(c.UserContext(), caller, domain.WalletID(req.Wallet)); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Tip moves funds from the caller's custodial balance to the wallet bound to
// the target platform id.
func (h *Handler) Tip(c *fiber.Ctx) error {
	var req tipRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Amount <= 0 {
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	}
	caller := callerWallet(c)
	if caller == "" {
		return fiber.NewError(http.StatusUnauthorized, "caller wallet missing")
	}

	res, err := h.service.Tip(c.UserContext(), caller, domain.PlatformID(req.PlatformID), req.Amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(tipResult(res))
}

// TipFrom is the owner-only tip between two platform ids.
func (h *Handler) TipFrom(c *fiber.Ctx) error {
	var req tipFromRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Amount <= 0 {
		return fiber.NewError(http.StatusBadRequest, "amount must be positive")
	}
	caller := callerWallet(c)

	res, err := h.service.TipFrom(c.UserContext(), caller, domain.PlatformID(req.FromPlatformID), domain.PlatformID(req.ToPlatformID), req.Amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(tipResult(res))
}

// PlatformIDOfMe returns the caller's own binding.
func (h *Handler) PlatformIDOfMe(c *fiber.Ctx) error {
	caller := callerWallet(c)
	if caller == "" {
		return fiber.NewError(http.StatusUnauthorized, "caller wallet missing")
	}
	return h.respondPlatformOf(c, caller)
}

// PlatformIDOf returns the binding for an arbitrary wallet.
func (h *Handler) PlatformIDOf(c *fiber.Ctx) error {
	wallet := c.Params("wallet")
	if wallet == "" {
		return fiber.NewError(http.StatusBadRequest, "wallet is required")
	}
	return h.respondPlatformOf(c, domain.WalletID(wallet))
}

func (h *Handler) respondPlatformOf(c *fiber.Ctx, wallet domain.WalletID) error {
	platform, bound, err := h.service.PlatformIDOf(c.UserContext(), wallet)
	if err != nil {
		return toHTTPError(err)
	}
	if !bound {
		return fiber.NewError(http.StatusNotFound, "wallet is not bound")
	}
	return c.JSON(fiber.Map{"wallet": string(wallet), "platform_id": int64(platform)})
}

// WalletOf resolves a platform id to its bound wallet.
func (h *Handler) WalletOf(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return err
	}
	wallet, bound, err := h.service.WalletOf(c.UserContext(), platform)
	if err != nil {
		return toHTTPError(err)
	}
	if !bound {
		return fiber.NewError(http.StatusNotFound, "platform id is not bound")
	}
	return c.JSON(fiber.Map{"wallet": string(wallet), "platform_id": int64(platform)})
}

// BalanceOf reports the custodial balance held for a platform id.
func (h *Handler) BalanceOf(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return err
	}
	balance, err := h.service.BalanceOf(c.UserContext(), platform)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"platform_id": int64(platform), "balance": balance})
}

func platformParam(c *fiber.Ctx) (domain.PlatformID, error) {
	raw := c.Params("platformId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid platform id")
	}
	return domain.PlatformID(id), nil
}

func tipResult(res TipResult) tipResponse {
	return tipResponse{
		TransactionID:  res.TransactionID,
		FromPlatformID: int64(res.From),
		ToPlatformID:   int64(res.To),
		Amount:         res.Amount,
		FromBalance:    res.FromBalance,
		CompletedAt:    res.CompletedAt.Format(time.RFC3339Nano),
	}
}

// callerWallet reads the authenticated caller set by the auth middleware.
func callerWallet(c *fiber.Ctx) domain.WalletID {
	wallet, _ := c.Locals("caller_wallet").(string)
	return domain.WalletID(wallet)
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAlreadyBounded):
		return fiber.NewError(http.StatusConflict, "platform id already bound to another wallet")
	case errors.Is(err, domain.ErrNotAllowed):
		return fiber.NewError(http.StatusForbidden, "owner only")
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "binding not found")
	case errors.Is(err, domain.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, domain.ErrBelowSubsistence):
		return fiber.NewError(http.StatusUnprocessableEntity, "recipient would fall below subsistence threshold")
	case errors.Is(err, domain.ErrTransferFailed):
		return fiber.NewError(http.StatusBadGateway, "transfer failed")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
