package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chaintip/chaintip/internal/tipbot"
)

// RegisterLookupRoutes wires the public query endpoints.
func RegisterLookupRoutes(r fiber.Router, h *tipbot.Handler) {
	r.Get("/bindings/wallets/:wallet", h.PlatformIDOf)
	r.Get("/bindings/platforms/:platformId", h.WalletOf)
	r.Get("/balances/:platformId", h.BalanceOf)
}

// RegisterBotRoutes wires the caller-authenticated bind/unbind/tip endpoints.
func RegisterBotRoutes(r fiber.Router, h *tipbot.Handler, tipLimit fiber.Handler) {
	r.Get("/bindings/me", h.PlatformIDOfMe)
	r.Post("/bind", h.Bind)
	r.Post("/unbind", h.Unbind)
	r.Post("/tips", tipLimit, h.Tip)
}

// RegisterAdminRoutes wires the owner-only endpoints.
func RegisterAdminRoutes(r fiber.Router, h *tipbot.Handler) {
	r.Post("/unbind", h.ForceUnbind)
	r.Post("/tips", h.TipFrom)
}
