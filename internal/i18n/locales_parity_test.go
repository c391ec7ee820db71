package i18n

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/terraincognita07/pregcalc/internal/reference"
)

func readRawCatalog(t *testing.T, language string) map[string]string {
	t.Helper()

	content, err := Locales.ReadFile("locales/" + language + ".json")
	if err != nil {
		t.Fatalf("read locale %q: %v", language, err)
	}
	catalog := map[string]string{}
	if err := json.Unmarshal(content, &catalog); err != nil {
		t.Fatalf("parse locale %q: %v", language, err)
	}
	return catalog
}

func TestLocalesDeclareSameKeys(t *testing.T) {
	en := readRawCatalog(t, LangEN)
	ru := readRawCatalog(t, LangRU)

	for _, pair := range []struct {
		name           string
		source, target map[string]string
	}{
		{name: "ru", source: en, target: ru},
		{name: "en", source: ru, target: en},
	} {
		var absent []string
		for key := range pair.source {
			if _, ok := pair.target[key]; !ok {
				absent = append(absent, key)
			}
		}
		sort.Strings(absent)
		if len(absent) > 0 {
			t.Errorf("%s locale lacks keys %v", pair.name, absent)
		}
	}
}

// Every label the embedded reference tables can produce must be translated
// in both languages, not just resolved through fallback.
func TestLocalesCoverReferenceLabels(t *testing.T) {
	tables, err := reference.Default()
	if err != nil {
		t.Fatalf("load default tables: %v", err)
	}

	keys := []string{"trimester.first", "trimester.second", "trimester.third", "weight_gain.range"}
	for _, test := range tables.AllTests() {
		keys = append(keys, test.Key)
	}
	for _, row := range tables.HCGRanges() {
		if row.NonPregnant {
			keys = append(keys, row.Key)
		}
	}
	for _, band := range tables.WeightGainBands() {
		keys = append(keys, "bmi."+string(band.Category))
	}

	for _, language := range []string{LangEN, LangRU} {
		catalog := readRawCatalog(t, language)
		for _, key := range keys {
			if value := catalog[key]; value == "" {
				t.Errorf("%s locale has no text for %q", language, key)
			}
		}
	}
}
