package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/textscan/textscan/internal/auth"
	"github.com/textscan/textscan/internal/blob"
	"github.com/textscan/textscan/internal/config"
	"github.com/textscan/textscan/internal/corpus"
	"github.com/textscan/textscan/internal/credits"
	"github.com/textscan/textscan/internal/identity"
	"github.com/textscan/textscan/internal/middleware"
	"github.com/textscan/textscan/internal/notification"
	"github.com/textscan/textscan/internal/scan"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Ledger credits.Ledger
	Blobs  blob.Store
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Ledger == nil {
		return fmt.Errorf("credit ledger is required")
	}
	if d.Blobs == nil {
		return fmt.Errorf("blob store is required")
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories
	var corpusRepo corpus.Repository
	var requestRepo credits.RequestRepository
	var identityRepo identity.Repository
	if d.DB != nil {
		corpusRepo = corpus.NewPostgresRepository(d.DB)
		requestRepo = credits.NewPostgresRequestRepository(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		corpusRepo = corpus.NewMemoryRepository()
		requestRepo = credits.NewMemoryRequestRepository()
		identityRepo = identity.NewMemoryRepository()
	}

	// Services
	store := corpus.NewStore(corpusRepo, d.Blobs)
	notifier := notification.NewLoggerNotifier(d.Logger)
	creditsSvc := credits.NewService(d.Ledger, requestRepo, notifier, d.Logger)
	scanSvc := scan.NewService(d.Ledger, store, notifier, d.Logger, d.Cfg.MatchThreshold, d.Cfg.CompareWorkers)
	identitySvc := identity.NewService(identityRepo, d.Ledger, d.Cfg.DailyCredits)
	tokenSvc := auth.NewService(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL)

	if err := identitySvc.EnsureAdmin(context.Background(), identity.Credentials{
		Email:    d.Cfg.AdminEmail,
		Password: d.Cfg.AdminPassword,
	}); err != nil {
		return fmt.Errorf("ensure admin account: %w", err)
	}

	// Handlers
	identityHandler := identity.NewHandler(identitySvc)
	authHandler := auth.NewHandler(identitySvc, tokenSvc)
	scanHandler := scan.NewHandler(scanSvc, d.Cfg.ScanTimeout)
	documentsHandler := corpus.NewHandler(store)
	creditsHandler := credits.NewHandler(creditsSvc, d.Cfg.DailyCredits)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	api.Post("/register", identityHandler.Register)
	api.Post("/login", authHandler.Login)

	// Protected routes
	jwtmw := middleware.JWTAuth(tokenSvc, identityRepo)
	protected := api.Group("", jwtmw)
	RegisterScanRoutes(protected, scanHandler, documentsHandler, middleware.ScanRateLimit(d.Cache, d.Cfg.ScanRateLimit))
	RegisterCreditRoutes(protected, creditsHandler)

	// Admin routes, with a structured audit trail of every decision.
	admin := protected.Group("/admin", middleware.RequireAdmin(), middleware.Audit(d.Logger))
	RegisterAdminRoutes(admin, creditsHandler)

	return nil
}
