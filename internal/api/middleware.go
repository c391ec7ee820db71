package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	languageCookieName = "pregcalc_lang"
	requestIDHeader    = "X-Request-ID"
	contextRequestID   = "request_id"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
	maxRequestIDLength = 128
)

// RequestID keeps a caller-supplied X-Request-ID or assigns a new UUID and
// echoes it on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := strings.TrimSpace(c.Get(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Locals(contextRequestID, requestID)
		c.Set(requestIDHeader, requestID)
		return c.Next()
	}
}

func RequestLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		}

		event := logger.Info()
		switch {
		case err != nil:
			event = logger.Error().Err(err)
		case status >= fiber.StatusInternalServerError:
			event = logger.Error()
		}

		event.
			Str("request_id", requestIDFromContext(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("remote_ip", c.IP()).
			Msg("request")

		return err
	}
}

func requestIDFromContext(c *fiber.Ctx) string {
	requestID, _ := c.Locals(contextRequestID).(string)
	return requestID
}
