package views

import (
	"fmt"

	"github.com/terraincognita07/pregcalc/internal/i18n"
	"github.com/terraincognita07/pregcalc/internal/reference"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// numberPrinter formats decimals with the grouping and decimal separators of
// the label language ("291,000" in en, "291 000" in ru).
func numberPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Russian
	}
	return message.NewPrinter(tag)
}

func formatDecimal(printer *message.Printer, value float64) string {
	return printer.Sprint(number.Decimal(value))
}

func formatOneDecimal(printer *message.Printer, value float64) string {
	return printer.Sprint(number.Decimal(value, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}

func bmiCategoryKey(category reference.BMICategory) string {
	return "bmi." + string(category)
}

func hcgWeekLabel(manager *i18n.Manager, language string, key string, nonPregnant bool, weekFrom int, weekTo int) string {
	if nonPregnant {
		return manager.Translate(language, key)
	}
	return reference.HCGRange{WeekFrom: weekFrom, WeekTo: weekTo}.WeekLabel()
}

func formatHCGRange(printer *message.Printer, low float64, high float64, unit string) string {
	return fmt.Sprintf("%s-%s %s", formatDecimal(printer, low), formatDecimal(printer, high), unit)
}
