package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "ok",
		"reference_version": handler.tables.Version(),
	})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, translateMessage(currentMessages(c), "error.not_found"))
}

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	language := handler.i18n.NormalizeLanguage(c.Params("lang"))
	handler.setLanguageCookie(c, language)

	if next := strings.TrimSpace(c.Query("next")); next != "" {
		return c.Redirect(sanitizeRedirectPath(next, "/"), fiber.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"success": true, "language": language})
}
