package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/postmasterly/dmarcview/internal/config"
	"github.com/postmasterly/dmarcview/internal/handlers"
	"github.com/postmasterly/dmarcview/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	overviewHandler *handlers.OverviewHandler,
	viewHandler *handlers.ViewHandler,
	analysisHandler *handlers.AnalysisHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)

	protected := middleware.JWTProtected(cfg)

	api.Get("/overview", protected, overviewHandler.Get)

	// View management
	api.Get("/views", protected, viewHandler.List)
	api.Post("/views", protected, viewHandler.Create)
	api.Put("/views/order", protected, viewHandler.Order)
	api.Get("/views/:id", protected, viewHandler.Get)
	api.Put("/views/:id", protected, viewHandler.Update)
	api.Delete("/views/:id", protected, viewHandler.Delete)
	api.Post("/views/:id/clone", protected, viewHandler.Clone)

	// Deep analysis; the id-less variants use the first view
	api.Get("/analysis/table", protected, analysisHandler.Table)
	api.Get("/analysis/:id/table", protected, analysisHandler.Table)
	api.Get("/analysis/:id/line", protected, analysisHandler.Line)
	api.Get("/analysis/:id/map", protected, analysisHandler.Map)
	api.Get("/analysis/:id/csv", protected, analysisHandler.CSV)
}
