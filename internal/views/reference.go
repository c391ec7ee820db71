package views

import (
	"fmt"

	"github.com/terraincognita07/pregcalc/internal/i18n"
	"github.com/terraincognita07/pregcalc/internal/reference"
)

type ReferenceTest struct {
	Name string `json:"name"`
	Week int    `json:"week"`
	Day  int    `json:"day"`
}

type ReferenceHCG struct {
	Week  string `json:"week"`
	Range string `json:"range"`
}

type ReferenceWeightGain struct {
	Category string `json:"category"`
	BMIRange string `json:"bmiRange"`
	Range    string `json:"range"`
}

type Reference struct {
	Version    string                `json:"version"`
	Tests      []ReferenceTest       `json:"tests"`
	HCGLevels  []ReferenceHCG        `json:"hcgLevels"`
	WeightGain []ReferenceWeightGain `json:"weightGain"`
}

// NewReference lists the active tables with localized labels. An open-ended
// BMI band renders as "30.0+".
func NewReference(tables *reference.Tables, manager *i18n.Manager, language string) Reference {
	printer := numberPrinter(manager.NormalizeLanguage(language))
	schedule := tables.AllTests()
	hcg := tables.HCGRanges()
	bands := tables.WeightGainBands()

	view := Reference{
		Version:    tables.Version(),
		Tests:      make([]ReferenceTest, 0, len(schedule)),
		HCGLevels:  make([]ReferenceHCG, 0, len(hcg)),
		WeightGain: make([]ReferenceWeightGain, 0, len(bands)),
	}

	for _, entry := range schedule {
		view.Tests = append(view.Tests, ReferenceTest{
			Name: manager.Translate(language, entry.Key),
			Week: entry.Week,
			Day:  entry.Day,
		})
	}
	for _, row := range hcg {
		view.HCGLevels = append(view.HCGLevels, ReferenceHCG{
			Week:  hcgWeekLabel(manager, language, row.Key, row.NonPregnant, row.WeekFrom, row.WeekTo),
			Range: formatHCGRange(printer, row.Low, row.High, row.Unit),
		})
	}
	for _, band := range bands {
		bmiRange := fmt.Sprintf("%s+", formatOneDecimal(printer, band.BMIFrom))
		if band.BMITo != 0 {
			bmiRange = fmt.Sprintf("%s-%s", formatOneDecimal(printer, band.BMIFrom), formatOneDecimal(printer, band.BMITo))
		}
		view.WeightGain = append(view.WeightGain, ReferenceWeightGain{
			Category: manager.Translate(language, bmiCategoryKey(band.Category)),
			BMIRange: bmiRange,
			Range:    manager.Translatef(language, "weight_gain.range", formatDecimal(printer, band.GainLowKg), formatDecimal(printer, band.GainHighKg)),
		})
	}
	return view
}
