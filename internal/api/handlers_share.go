package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pregcalc/internal/services"
)

// CreateShare validates the inputs by running the calculation once, then
// returns a signed token carrying only those inputs.
func (handler *Handler) CreateShare(c *fiber.Ctx) error {
	raw, err := parseCalculateRequest(c)
	if err != nil {
		return handler.calculationError(c, err)
	}
	if _, err := handler.calculate(raw); err != nil {
		return handler.calculationError(c, err)
	}

	token, expiresAt, err := services.BuildShareToken(handler.shareSecret, raw, handler.shareTTL, handler.now())
	if err != nil {
		return handler.calculationError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"token":     token,
		"path":      "/api/shared/" + token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}

// SharedCalculation recomputes a shared calculation against today's date.
func (handler *Handler) SharedCalculation(c *fiber.Ctx) error {
	claims, err := services.ParseShareToken(handler.shareSecret, c.Params("token"), handler.now())
	if err != nil {
		return handler.calculationError(c, err)
	}
	return handler.respondWithCalculation(c, claims.Input())
}
