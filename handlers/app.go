package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/yourusername/reserved/metrics"
	"github.com/yourusername/reserved/middleware"
	"github.com/yourusername/reserved/services"
	"go.uber.org/zap"
)

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// NewApp wires the HTTP API around reg.
func NewApp(reg *services.Registry, cfg *services.Config, log *zap.SugaredLogger) *fiber.App {
	bodyLimit := cfg.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 1024 * 1024
	}
	app := fiber.New(fiber.Config{
		BodyLimit:             bodyLimit,
		ErrorHandler:          customErrorHandler,
		UnescapePath:          true,
		DisableStartupMessage: true,
	})

	app.Use(fiberlogger.New())
	app.Use(helmet.New())

	reserved := NewReservedHandler(reg, cfg.Validation)
	admin := NewAdminHandler(reg, log)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ready": reg.Ready(), "count": reg.Count()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	if cfg.Server.RateLimit > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        cfg.Server.RateLimit,
			Expiration: cfg.Server.RateWindow,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/api/admin")
			},
		}))
	}

	// Static segments first so they are not captured by :name.
	api.Get("/reserved", reserved.List)
	api.Get("/reserved/stats", reserved.Stats)
	api.Get("/reserved/export", reserved.Export)
	api.Post("/reserved/check", reserved.Check)
	api.Get("/reserved/:name", reserved.Get)
	api.Get("/reserved/:name/suggestions", reserved.Suggestions)
	api.Post("/usernames/validate", reserved.Validate)
	api.Post("/register", middleware.RejectReserved(reg, "username"), reserved.Register)

	guards := []fiber.Handler{middleware.Protected()}
	if strings.EqualFold(cfg.Cache.Backend, "postgres") {
		guards = append(guards, middleware.DBPing(log))
	}
	adm := api.Group("/admin", guards...)
	adm.Post("/reserved/import", admin.Import)
	adm.Post("/reserved/refresh", admin.Refresh)
	adm.Delete("/reserved/cache", admin.ClearCache)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}
