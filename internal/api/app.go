package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// NewApp builds the fiber application with the full middleware chain and
// every route registered.
func NewApp(handler *Handler, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "pregcalc",
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024,
	})

	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(RequestLogger(logger))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)

	RegisterRoutes(app, handler)
	return app
}
