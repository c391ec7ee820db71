package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/pregcalc/internal/i18n"
	"github.com/terraincognita07/pregcalc/internal/reference"
	"github.com/terraincognita07/pregcalc/internal/services"
	"github.com/terraincognita07/pregcalc/internal/views"
)

type CalcOptions struct {
	LastPeriod  string
	CycleLength string
	WeightKg    string
	HeightCm    string
	BMI         string
	// Today overrides the current date (YYYY-MM-DD); empty means now.
	Today    string
	Language string
	Location *time.Location
}

// RunCalcCommand prints the localized calculation as indented JSON.
func RunCalcCommand(out io.Writer, options CalcOptions, tables *reference.Tables, manager *i18n.Manager, now time.Time) error {
	location := options.Location
	if location == nil {
		location = time.UTC
	}

	if strings.TrimSpace(options.LastPeriod) == "" {
		return fmt.Errorf("--last-period is required")
	}

	input, err := services.ParsePregnancyInput(services.PregnancyInputRaw{
		LastPeriod:  options.LastPeriod,
		CycleLength: options.CycleLength,
		WeightKg:    options.WeightKg,
		HeightCm:    options.HeightCm,
		BMI:         options.BMI,
	}, location)
	if err != nil {
		return err
	}

	if today := strings.TrimSpace(options.Today); today != "" {
		parsed, err := time.ParseInLocation("2006-01-02", today, location)
		if err != nil {
			return fmt.Errorf("invalid --today %q: %w", today, err)
		}
		now = parsed
	}

	result, err := services.CalculatePregnancy(input, now, tables)
	if err != nil {
		return err
	}

	language := manager.NormalizeLanguage(options.Language)
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(views.NewCalculation(result, manager, language))
}
