package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chaintip/chaintip/internal/auth"
	"github.com/chaintip/chaintip/internal/config"
)

// CallerAuth validates the bearer caller token and stores the wallet address
// it was issued for. The platform bot mints these tokens after verifying a
// wallet signature; downstream handlers treat the wallet as the operation's
// caller identity.
func CallerAuth(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		wallet, err := auth.VerifyCallerToken(tokenStr, []byte(cfg.CallerTokenSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals("caller_wallet", wallet)
		return c.Next()
	}
}

// OwnerKey gates admin routes: in addition to a valid caller token, the
// request must present the owner API key.
func OwnerKey(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.VerifyOwnerKey(c.Get("X-Owner-Key"), cfg.OwnerKeyHash); err != nil {
			return fiber.NewError(http.StatusForbidden, "owner key rejected")
		}
		return c.Next()
	}
}
