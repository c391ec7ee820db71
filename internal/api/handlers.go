package api

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/pregcalc/internal/i18n"
	"github.com/terraincognita07/pregcalc/internal/reference"
)

type Handler struct {
	tables       *reference.Tables
	i18n         *i18n.Manager
	location     *time.Location
	logger       zerolog.Logger
	now          func() time.Time
	cookieSecure bool
	shareSecret  []byte
	shareTTL     time.Duration
}

// NewHandler wires the immutable reference tables and label catalogs into
// the HTTP layer. Tables are shared read-only across request goroutines.
func NewHandler(tables *reference.Tables, i18nManager *i18n.Manager, location *time.Location, logger zerolog.Logger) (*Handler, error) {
	if tables == nil {
		return nil, errors.New("reference tables are required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if location == nil {
		location = time.UTC
	}

	return &Handler{
		tables:   tables,
		i18n:     i18nManager,
		location: location,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// WithShareTokens enables the share routes. An empty secret leaves them off.
func (handler *Handler) WithShareTokens(secret string, ttl time.Duration) *Handler {
	handler.shareSecret = []byte(secret)
	handler.shareTTL = ttl
	return handler
}

func (handler *Handler) WithClock(now func() time.Time) *Handler {
	if now != nil {
		handler.now = now
	}
	return handler
}

func (handler *Handler) WithSecureCookies(secure bool) *Handler {
	handler.cookieSecure = secure
	return handler
}

func (handler *Handler) sharingEnabled() bool {
	return len(handler.shareSecret) > 0
}

func (handler *Handler) today() time.Time {
	return handler.now().In(handler.location)
}
