package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pregcalc/internal/views"
)

func (handler *Handler) Reference(c *fiber.Ctx) error {
	return apiSuccess(c, views.NewReference(handler.tables, handler.i18n, handler.requestLanguage(c)))
}
