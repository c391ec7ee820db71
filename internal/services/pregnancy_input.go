package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// PregnancyInputRaw is the loosely typed form of PregnancyInput as it arrives
// from a form, JSON body, CLI flags or a share token.
type PregnancyInputRaw struct {
	LastPeriod  string
	CycleLength string
	WeightKg    string
	HeightCm    string
	BMI         string
}

// ParsePregnancyInput coerces raw values into PregnancyInput. An empty cycle
// length defaults to 28. Body metrics are attached when a BMI is given or
// when both weight and height are given.
func ParsePregnancyInput(raw PregnancyInputRaw, location *time.Location) (PregnancyInput, error) {
	if location == nil {
		location = time.UTC
	}

	rawDate := strings.TrimSpace(raw.LastPeriod)
	if rawDate == "" {
		return PregnancyInput{}, ErrMalformedDate
	}
	lastPeriod, err := time.ParseInLocation(isoDateLayout, rawDate, location)
	if err != nil {
		return PregnancyInput{}, fmt.Errorf("%w: %q", ErrMalformedDate, rawDate)
	}

	input := PregnancyInput{
		LastPeriodDate:  lastPeriod,
		CycleLengthDays: DefaultCycleLength,
	}

	if rawCycle := strings.TrimSpace(raw.CycleLength); rawCycle != "" {
		cycleLength, err := parseWholeDays(rawCycle)
		if err != nil {
			return PregnancyInput{}, fmt.Errorf("%w: %q is not a whole number of days", ErrInvalidCycleLength, rawCycle)
		}
		if !IsValidCycleLength(cycleLength) {
			return PregnancyInput{}, fmt.Errorf("%w: %d days", ErrInvalidCycleLength, cycleLength)
		}
		input.CycleLengthDays = cycleLength
	}

	body, err := parseBodyMetrics(raw)
	if err != nil {
		return PregnancyInput{}, err
	}
	input.Body = body
	return input, nil
}

func parseBodyMetrics(raw PregnancyInputRaw) (*BodyMetrics, error) {
	bmi, err := parseOptionalDecimal(raw.BMI)
	if err != nil {
		return nil, err
	}
	weight, err := parseOptionalDecimal(raw.WeightKg)
	if err != nil {
		return nil, err
	}
	height, err := parseOptionalDecimal(raw.HeightCm)
	if err != nil {
		return nil, err
	}

	if bmi != 0 {
		return &BodyMetrics{BMI: bmi}, nil
	}
	if weight == 0 || height == 0 {
		return nil, nil
	}
	return &BodyMetrics{WeightKg: weight, HeightCm: height}, nil
}

// parseWholeDays accepts "28" as well as integral decimals such as "28.0",
// which JSON clients produce when they serialize numbers as floats.
func parseWholeDays(raw string) (int, error) {
	if days, err := strconv.Atoi(raw); err == nil {
		return days, nil
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(parsed, 0) || math.IsNaN(parsed) || parsed != math.Trunc(parsed) || math.Abs(parsed) > math.MaxInt32 {
		return 0, fmt.Errorf("not a whole number: %q", raw)
	}
	return int(parsed), nil
}

// parseOptionalDecimal accepts both "62.5" and "62,5".
func parseOptionalDecimal(raw string) (float64, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBodyMetrics, raw)
	}
	return parsed, nil
}
