package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pregcalc/internal/services"
)

var errLastPeriodRequired = errors.New("last period date is required")

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

// calculatorErrorTranslationKey maps calculator and share failures to message
// keys. Unknown errors get the generic calculation failure.
func calculatorErrorTranslationKey(err error) string {
	switch {
	case errors.Is(err, errLastPeriodRequired):
		return "error.last_period_required"
	case errors.Is(err, services.ErrMalformedDate):
		return "error.malformed_date"
	case errors.Is(err, services.ErrFutureDate):
		return "error.future_date"
	case errors.Is(err, services.ErrInvalidCycleLength):
		return "error.invalid_cycle_length"
	case errors.Is(err, services.ErrInvalidBodyMetrics):
		return "error.invalid_body_metrics"
	case errors.Is(err, services.ErrShareTokenMissing),
		errors.Is(err, services.ErrShareTokenInvalid),
		errors.Is(err, services.ErrShareTokenInvalidPurpose),
		errors.Is(err, services.ErrShareTokenExpired):
		return "error.invalid_share_token"
	case errors.Is(err, errInvalidRequestBody):
		return "error.invalid_request"
	default:
		return "error.calculation_failed"
	}
}

func isCalculatorInputError(err error) bool {
	return calculatorErrorTranslationKey(err) != "error.calculation_failed"
}

func currentLanguage(c *fiber.Ctx) string {
	language, ok := c.Locals(contextLanguageKey).(string)
	if !ok || strings.TrimSpace(language) == "" {
		return ""
	}
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func (handler *Handler) requestLanguage(c *fiber.Ctx) string {
	if language := currentLanguage(c); language != "" {
		return language
	}
	return handler.i18n.DefaultLanguage()
}
