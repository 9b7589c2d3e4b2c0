package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/chaintip/chaintip/internal/config"
	"github.com/chaintip/chaintip/internal/domain"
	"github.com/chaintip/chaintip/internal/middleware"
	"github.com/chaintip/chaintip/internal/notification"
	"github.com/chaintip/chaintip/internal/store"
	"github.com/chaintip/chaintip/internal/tipbot"
	"github.com/chaintip/chaintip/internal/treasury"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// The in-memory backends are for development only.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	RegisterHealthRoutes(app, d)

	var stateStore store.Store
	if d.DB != nil {
		stateStore = store.NewPostgres(d.DB)
	} else {
		stateStore = store.NewMemory()
	}

	var chain treasury.Transferer
	if d.Cfg.IsDev() {
		chain = treasury.NewMemory(d.Cfg.SubsistenceThreshold)
	} else {
		chain = treasury.NewStatic(d.Logger)
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	svc, err := tipbot.NewService(stateStore, chain, notifier, domain.WalletID(d.Cfg.OwnerWallet))
	if err != nil {
		return err
	}
	handler := tipbot.NewHandler(svc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Lookups are public, mirroring the contract's query surface.
	RegisterLookupRoutes(api, handler)

	// Caller-authenticated operations.
	protectedMws := []fiber.Handler{middleware.CallerAuth(d.Cfg)}
	if d.Cache != nil {
		protectedMws = append(protectedMws, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	protected := api.Group("", protectedMws...)
	RegisterBotRoutes(protected, handler, middleware.TipRateLimit(d.Cache, d.Cfg.TipRateLimitPerMin))

	// Owner-only operations additionally present the owner API key.
	admin := protected.Group("/admin", middleware.OwnerKey(d.Cfg), middleware.Audit(d.Logger))
	RegisterAdminRoutes(admin, handler)

	return nil
}
