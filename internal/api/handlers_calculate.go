package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pregcalc/internal/services"
	"github.com/terraincognita07/pregcalc/internal/views"
)

var errInvalidRequestBody = errors.New("invalid request body")

type calculateForm struct {
	LastPeriod  string `form:"last_period"`
	CycleLength string `form:"cycle_length"`
	WeightKg    string `form:"pre_pregnancy_weight"`
	HeightCm    string `form:"height"`
	BMI         string `form:"bmi"`
}

func (handler *Handler) Calculate(c *fiber.Ctx) error {
	raw, err := parseCalculateRequest(c)
	if err != nil {
		return handler.calculationError(c, err)
	}
	return handler.respondWithCalculation(c, raw)
}

func (handler *Handler) respondWithCalculation(c *fiber.Ctx, raw services.PregnancyInputRaw) error {
	result, err := handler.calculate(raw)
	if err != nil {
		return handler.calculationError(c, err)
	}
	return apiSuccess(c, views.NewCalculation(result, handler.i18n, handler.requestLanguage(c)))
}

func (handler *Handler) calculate(raw services.PregnancyInputRaw) (services.PregnancyResult, error) {
	if strings.TrimSpace(raw.LastPeriod) == "" {
		return services.PregnancyResult{}, errLastPeriodRequired
	}
	input, err := services.ParsePregnancyInput(raw, handler.location)
	if err != nil {
		return services.PregnancyResult{}, err
	}
	return services.CalculatePregnancy(input, handler.today(), handler.tables)
}

func (handler *Handler) calculationError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	if !isCalculatorInputError(err) {
		status = fiber.StatusInternalServerError
		handler.logger.Error().
			Err(err).
			Str("request_id", requestIDFromContext(c)).
			Str("path", c.Path()).
			Msg("calculation failed")
	}
	return apiError(c, status, translateMessage(currentMessages(c), calculatorErrorTranslationKey(err)))
}

// parseCalculateRequest accepts a form post or a JSON object. JSON values may
// be strings or numbers.
func parseCalculateRequest(c *fiber.Ctx) (services.PregnancyInputRaw, error) {
	if isJSONRequest(c) {
		return parseCalculateJSON(c.Body())
	}

	form := calculateForm{}
	if err := c.BodyParser(&form); err != nil {
		return services.PregnancyInputRaw{}, fmt.Errorf("%w: %v", errInvalidRequestBody, err)
	}
	return services.PregnancyInputRaw{
		LastPeriod:  form.LastPeriod,
		CycleLength: form.CycleLength,
		WeightKg:    form.WeightKg,
		HeightCm:    form.HeightCm,
		BMI:         form.BMI,
	}, nil
}

func parseCalculateJSON(body []byte) (services.PregnancyInputRaw, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return services.PregnancyInputRaw{}, nil
	}

	payload := map[string]any{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return services.PregnancyInputRaw{}, fmt.Errorf("%w: %v", errInvalidRequestBody, err)
	}

	raw := services.PregnancyInputRaw{}
	for field, target := range map[string]*string{
		"last_period":          &raw.LastPeriod,
		"cycle_length":         &raw.CycleLength,
		"pre_pregnancy_weight": &raw.WeightKg,
		"height":               &raw.HeightCm,
		"bmi":                  &raw.BMI,
	} {
		value, err := jsonScalarString(payload[field])
		if err != nil {
			return services.PregnancyInputRaw{}, fmt.Errorf("%w: field %s: %v", errInvalidRequestBody, field, err)
		}
		*target = value
	}
	return raw, nil
}

func jsonScalarString(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case json.Number:
		return typed.String(), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}
