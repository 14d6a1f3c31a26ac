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

	"github.com/peg-vault/peg_vault/internal/config"
	"github.com/peg-vault/peg_vault/internal/events"
	"github.com/peg-vault/peg_vault/internal/middleware"
	"github.com/peg-vault/peg_vault/internal/oracle"
	"github.com/peg-vault/peg_vault/internal/stablecoin"
	"github.com/peg-vault/peg_vault/internal/vault"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	Cache     *redis.Client
	Logger    *slog.Logger
	Publisher events.Publisher
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
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
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var coins stablecoin.Ledger
	if d.DB != nil {
		coins = stablecoin.NewPostgresLedger(d.DB)
	} else {
		coins = stablecoin.NewInMemory()
	}

	var repo vault.Repository
	if d.DB != nil {
		repo = vault.NewPostgresRepository(d.DB)
	} else {
		repo = vault.NewMemoryRepository()
	}

	var feed oracle.PriceFeed
	if d.Cfg.OracleURL != "" {
		feed = oracle.NewHTTPFeed(nil, d.Cfg.OracleURL, d.Cfg.OracleAPIKey)
	} else {
		feed = oracle.NewStaticFeed()
	}

	publisher := d.Publisher
	if publisher == nil {
		publisher = events.NewLoggerPublisher(d.Logger)
	}

	vaultSvc := vault.NewService(repo, coins, feed, d.Cfg.OwnerAccount, publisher)
	vaultHandler := vault.NewHandler(vaultSvc)
	coinHandler := stablecoin.NewHandler(coins)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes: rate and estimate previews take no caller identity.
	api.Get("/rates/current", vaultHandler.CurrentRate)
	api.Get("/estimates/collateral", vaultHandler.EstimateCollateral)
	api.Get("/estimates/stablecoin", vaultHandler.EstimateStablecoin)
	RegisterAuthRoutes(api, d.Cfg)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg)
	protected := api.Group("", jwtmw)
	opLimit := middleware.OperationRateLimit(d.Cache, 30)
	RegisterVaultRoutes(protected, vaultHandler, opLimit)
	RegisterStablecoinRoutes(protected, coinHandler)
	RegisterAdminRoutes(protected, vaultHandler)

	return nil
}
