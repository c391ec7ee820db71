package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const languageCookieMaxAge = 365 * 24 * time.Hour

// LanguageMiddleware stores the label language and its catalog in the request
// locals. A valid cookie wins over Accept-Language; a stale cookie naming an
// unsupported language is rewritten to the default.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	var language string
	if stored := c.Cookies(languageCookieName); stored != "" {
		language = handler.i18n.NormalizeLanguage(stored)
		if language != stored {
			handler.setLanguageCookie(c, language)
		}
	} else {
		language = handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	}

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    handler.i18n.NormalizeLanguage(language),
		Path:     "/",
		MaxAge:   int(languageCookieMaxAge / time.Second),
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
