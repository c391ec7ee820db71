package reference

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const UnitMIUPerML = "mIU/mL"

var ErrReferenceTableIntegrity = errors.New("reference table integrity violation")

type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// TestScheduleEntry is a recommended test placed at a gestational offset
// counted from the last menstrual period.
type TestScheduleEntry struct {
	Key  string `yaml:"key"`
	Week int    `yaml:"week"`
	Day  int    `yaml:"day"`
}

func (entry TestScheduleEntry) OffsetDays() int {
	return entry.Week*7 + entry.Day
}

// HCGRange covers gestational weeks [WeekFrom, WeekTo). The non-pregnant row
// carries no weeks and never matches a lookup.
type HCGRange struct {
	Key         string  `yaml:"key"`
	NonPregnant bool    `yaml:"non_pregnant"`
	WeekFrom    int     `yaml:"week_from"`
	WeekTo      int     `yaml:"week_to"`
	Low         float64 `yaml:"low"`
	High        float64 `yaml:"high"`
	Unit        string  `yaml:"unit"`
}

func (row HCGRange) Contains(week int) bool {
	if row.NonPregnant {
		return false
	}
	return week >= row.WeekFrom && week < row.WeekTo
}

// WeekLabel renders the bucket the way lab reference sheets print it ("3-4").
func (row HCGRange) WeekLabel() string {
	if row.NonPregnant {
		return ""
	}
	return fmt.Sprintf("%d-%d", row.WeekFrom, row.WeekTo)
}

// WeightGainBand maps a pre-pregnancy BMI interval [BMIFrom, BMITo) to a
// recommended total gain. BMITo of zero leaves the band open-ended.
type WeightGainBand struct {
	Category   BMICategory `yaml:"category"`
	BMIFrom    float64     `yaml:"bmi_from"`
	BMITo      float64     `yaml:"bmi_to"`
	GainLowKg  float64     `yaml:"gain_low_kg"`
	GainHighKg float64     `yaml:"gain_high_kg"`
}

func (band WeightGainBand) Contains(bmi float64) bool {
	if bmi < band.BMIFrom {
		return false
	}
	return band.BMITo == 0 || bmi < band.BMITo
}

// Tables is the load-once, read-many reference data consulted by the
// calculator. Build it with New, Parse or Default; all of them validate.
type Tables struct {
	version      string
	testSchedule []TestScheduleEntry
	hcgRanges    []HCGRange
	weightGain   []WeightGainBand
}

func New(version string, schedule []TestScheduleEntry, hcg []HCGRange, weightGain []WeightGainBand) (*Tables, error) {
	tables := &Tables{
		version:      strings.TrimSpace(version),
		testSchedule: append([]TestScheduleEntry(nil), schedule...),
		hcgRanges:    append([]HCGRange(nil), hcg...),
		weightGain:   append([]WeightGainBand(nil), weightGain...),
	}
	for index := range tables.hcgRanges {
		if strings.TrimSpace(tables.hcgRanges[index].Unit) == "" {
			tables.hcgRanges[index].Unit = UnitMIUPerML
		}
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (tables *Tables) Version() string {
	return tables.version
}

func (tables *Tables) AllTests() []TestScheduleEntry {
	result := make([]TestScheduleEntry, len(tables.testSchedule))
	copy(result, tables.testSchedule)
	return result
}

func (tables *Tables) HCGRanges() []HCGRange {
	result := make([]HCGRange, len(tables.hcgRanges))
	copy(result, tables.hcgRanges)
	return result
}

func (tables *Tables) WeightGainBands() []WeightGainBand {
	result := make([]WeightGainBand, len(tables.weightGain))
	copy(result, tables.weightGain)
	return result
}

func (tables *Tables) LookupHCG(week int) (HCGRange, bool) {
	for _, row := range tables.hcgRanges {
		if row.Contains(week) {
			return row, true
		}
	}
	return HCGRange{}, false
}

func (tables *Tables) WeightGainFor(bmi float64) (WeightGainBand, bool) {
	for _, band := range tables.weightGain {
		if band.Contains(bmi) {
			return band, true
		}
	}
	return WeightGainBand{}, false
}

func (tables *Tables) Validate() error {
	if tables.version == "" {
		return integrityError("version is required")
	}
	if err := validateTestSchedule(tables.testSchedule); err != nil {
		return err
	}
	if err := validateHCGRanges(tables.hcgRanges); err != nil {
		return err
	}
	return validateWeightGainBands(tables.weightGain)
}

func validateTestSchedule(schedule []TestScheduleEntry) error {
	if len(schedule) == 0 {
		return integrityError("test schedule is empty")
	}
	seen := make(map[string]struct{}, len(schedule))
	for _, entry := range schedule {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			return integrityError("test schedule entry without key")
		}
		if _, exists := seen[key]; exists {
			return integrityError("duplicate test key %q", key)
		}
		seen[key] = struct{}{}
		if entry.Week < 0 || entry.Day < 0 || entry.Day > 6 {
			return integrityError("test %q has invalid offset %dw%dd", key, entry.Week, entry.Day)
		}
	}
	return nil
}

func validateHCGRanges(rows []HCGRange) error {
	if len(rows) == 0 {
		return integrityError("hcg table is empty")
	}

	seen := make(map[string]struct{}, len(rows))
	buckets := make([]HCGRange, 0, len(rows))
	nonPregnantRows := 0
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			return integrityError("hcg row without key")
		}
		if _, exists := seen[key]; exists {
			return integrityError("duplicate hcg key %q", key)
		}
		seen[key] = struct{}{}

		if row.Low < 0 || row.Low > row.High {
			return integrityError("hcg row %q has inverted range %g-%g", key, row.Low, row.High)
		}
		if row.NonPregnant {
			nonPregnantRows++
			continue
		}
		if row.WeekFrom < 0 || row.WeekTo <= row.WeekFrom {
			return integrityError("hcg row %q has empty week bucket %d-%d", key, row.WeekFrom, row.WeekTo)
		}
		buckets = append(buckets, row)
	}
	if nonPregnantRows > 1 {
		return integrityError("hcg table has %d non-pregnant rows", nonPregnantRows)
	}
	if len(buckets) == 0 {
		return integrityError("hcg table has no gestational buckets")
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].WeekFrom < buckets[j].WeekFrom
	})
	for index := 1; index < len(buckets); index++ {
		previous := buckets[index-1]
		current := buckets[index]
		switch {
		case current.WeekFrom < previous.WeekTo:
			return integrityError("hcg rows %q and %q overlap", previous.Key, current.Key)
		case current.WeekFrom > previous.WeekTo:
			return integrityError("gap between hcg rows %q and %q", previous.Key, current.Key)
		}
	}
	return nil
}

func validateWeightGainBands(bands []WeightGainBand) error {
	if len(bands) == 0 {
		return nil
	}

	sorted := append([]WeightGainBand(nil), bands...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BMIFrom < sorted[j].BMIFrom
	})

	seen := make(map[BMICategory]struct{}, len(sorted))
	for index, band := range sorted {
		if strings.TrimSpace(string(band.Category)) == "" {
			return integrityError("weight gain band without category")
		}
		if _, exists := seen[band.Category]; exists {
			return integrityError("duplicate weight gain category %q", band.Category)
		}
		seen[band.Category] = struct{}{}

		if band.GainLowKg < 0 || band.GainLowKg > band.GainHighKg {
			return integrityError("weight gain band %q has inverted range", band.Category)
		}
		last := index == len(sorted)-1
		if band.BMITo == 0 && !last {
			return integrityError("open-ended weight gain band %q must be last", band.Category)
		}
		if band.BMITo != 0 && band.BMITo <= band.BMIFrom {
			return integrityError("weight gain band %q has empty bmi interval", band.Category)
		}
		if index > 0 && sorted[index-1].BMITo != band.BMIFrom {
			return integrityError("weight gain bands %q and %q are not contiguous", sorted[index-1].Category, band.Category)
		}
	}
	return nil
}

func integrityError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrReferenceTableIntegrity, fmt.Sprintf(format, args...))
}
