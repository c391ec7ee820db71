// Package views turns calculator results and reference tables into
// localized, presentation-ready values shared by the HTTP API and the CLI.
package views

import (
	"github.com/terraincognita07/pregcalc/internal/i18n"
	"github.com/terraincognita07/pregcalc/internal/services"
)

type TestDate struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type HCGLevel struct {
	Week      string `json:"week"`
	Range     string `json:"range"`
	IsCurrent bool   `json:"isCurrent"`
}

// Calculation is the localized form of a PregnancyResult. Dates are ISO
// YYYY-MM-DD.
type Calculation struct {
	LastPeriodDate         string     `json:"lastPeriodDate"`
	CycleLength            int        `json:"cycleLength"`
	ConceptionDate         string     `json:"conceptionDate"`
	DueDate                string     `json:"dueDate"`
	PregnancyWeeks         int        `json:"pregnancyWeeks"`
	PregnancyDaysRemainder int        `json:"pregnancyDaysRemainder"`
	GestationalAgeDays     int        `json:"gestationalAgeDays"`
	DaysUntilBirth         int        `json:"daysUntilBirth"`
	CurrentTrimester       string     `json:"currentTrimester"`
	TrimesterNumber        int        `json:"trimesterNumber"`
	MaternityLeaveDate     string     `json:"maternityLeaveDate"`
	WeightGainRange        string     `json:"weightGainRange,omitempty"`
	BMI                    string     `json:"bmi,omitempty"`
	BMICategory            string     `json:"bmiCategory,omitempty"`
	TestDates              []TestDate `json:"testDates"`
	HCGLevels              []HCGLevel `json:"hcgLevels"`
	ReferenceVersion       string     `json:"referenceVersion"`
}

func NewCalculation(result services.PregnancyResult, manager *i18n.Manager, language string) Calculation {
	printer := numberPrinter(manager.NormalizeLanguage(language))

	view := Calculation{
		LastPeriodDate:         services.FormatISODate(result.LastPeriodDate),
		CycleLength:            result.CycleLengthDays,
		ConceptionDate:         services.FormatISODate(result.ConceptionDate),
		DueDate:                services.FormatISODate(result.DueDate),
		PregnancyWeeks:         result.PregnancyWeeks,
		PregnancyDaysRemainder: result.PregnancyDaysRemainder,
		GestationalAgeDays:     result.GestationalAgeDays,
		DaysUntilBirth:         result.DaysUntilBirth,
		CurrentTrimester:       manager.Translate(language, result.Trimester.Key()),
		TrimesterNumber:        result.Trimester.Number(),
		MaternityLeaveDate:     services.FormatISODate(result.MaternityLeaveDate),
		TestDates:              make([]TestDate, 0, len(result.TestDates)),
		HCGLevels:              make([]HCGLevel, 0, len(result.HCGLevels)),
		ReferenceVersion:       result.ReferenceVersion,
	}

	if gain := result.WeightGain; gain != nil {
		view.WeightGainRange = manager.Translatef(language, "weight_gain.range",
			formatDecimal(printer, gain.GainLowKg),
			formatDecimal(printer, gain.GainHighKg),
		)
		view.BMI = formatOneDecimal(printer, gain.BMI)
		view.BMICategory = manager.Translate(language, bmiCategoryKey(gain.Category))
	}

	for _, test := range result.TestDates {
		view.TestDates = append(view.TestDates, TestDate{
			Name: manager.Translate(language, test.Key),
			Date: services.FormatISODate(test.Date),
		})
	}

	for _, level := range result.HCGLevels {
		view.HCGLevels = append(view.HCGLevels, HCGLevel{
			Week:      hcgWeekLabel(manager, language, level.Key, level.NonPregnant, level.WeekFrom, level.WeekTo),
			Range:     formatHCGRange(printer, level.Low, level.High, level.Unit),
			IsCurrent: level.IsCurrent,
		})
	}

	return view
}
