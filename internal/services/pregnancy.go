package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/terraincognita07/pregcalc/internal/reference"
)

const (
	DefaultCycleLength  = 28
	MinCycleLength      = 20
	MaxCycleLength      = 40
	LutealPhaseDays     = 14
	StandardTermDays    = 280
	MaternityLeaveDays  = 70
	secondTrimesterWeek = 14
	thirdTrimesterWeek  = 28
)

var (
	ErrFutureDate         = errors.New("last period date is in the future")
	ErrInvalidCycleLength = errors.New("cycle length out of range")
	ErrMalformedDate      = errors.New("malformed last period date")
	ErrInvalidBodyMetrics = errors.New("invalid body metrics")
)

type Trimester int

const (
	TrimesterFirst Trimester = iota + 1
	TrimesterSecond
	TrimesterThird
)

func (trimester Trimester) Key() string {
	switch trimester {
	case TrimesterFirst:
		return "trimester.first"
	case TrimesterSecond:
		return "trimester.second"
	case TrimesterThird:
		return "trimester.third"
	default:
		return "trimester.unknown"
	}
}

func (trimester Trimester) Number() int {
	return int(trimester)
}

// BodyMetrics carries the optional pre-pregnancy measurements. BMI wins over
// weight and height when both are supplied.
type BodyMetrics struct {
	WeightKg float64
	HeightCm float64
	BMI      float64
}

func (metrics BodyMetrics) ResolveBMI() (float64, error) {
	if metrics.BMI != 0 {
		if metrics.BMI < 10 || metrics.BMI > 80 {
			return 0, fmt.Errorf("%w: bmi %.1f", ErrInvalidBodyMetrics, metrics.BMI)
		}
		return metrics.BMI, nil
	}
	if metrics.WeightKg < 25 || metrics.WeightKg > 350 {
		return 0, fmt.Errorf("%w: weight %.1f kg", ErrInvalidBodyMetrics, metrics.WeightKg)
	}
	if metrics.HeightCm < 100 || metrics.HeightCm > 250 {
		return 0, fmt.Errorf("%w: height %.1f cm", ErrInvalidBodyMetrics, metrics.HeightCm)
	}
	heightM := metrics.HeightCm / 100
	return metrics.WeightKg / (heightM * heightM), nil
}

type PregnancyInput struct {
	LastPeriodDate  time.Time
	CycleLengthDays int
	Body            *BodyMetrics
}

type WeightGainRecommendation struct {
	BMI        float64               `json:"bmi"`
	Category   reference.BMICategory `json:"category"`
	GainLowKg  float64               `json:"gain_low_kg"`
	GainHighKg float64               `json:"gain_high_kg"`
}

type TestDate struct {
	Key  string    `json:"key"`
	Date time.Time `json:"date"`
}

type HCGLevel struct {
	Key         string  `json:"key"`
	NonPregnant bool    `json:"non_pregnant"`
	WeekFrom    int     `json:"week_from"`
	WeekTo      int     `json:"week_to"`
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	Unit        string  `json:"unit"`
	IsCurrent   bool    `json:"is_current"`
}

type PregnancyResult struct {
	LastPeriodDate         time.Time                 `json:"last_period_date"`
	CycleLengthDays        int                       `json:"cycle_length_days"`
	ConceptionDate         time.Time                 `json:"conception_date"`
	DueDate                time.Time                 `json:"due_date"`
	GestationalAgeDays     int                       `json:"gestational_age_days"`
	PregnancyWeeks         int                       `json:"pregnancy_weeks"`
	PregnancyDaysRemainder int                       `json:"pregnancy_days_remainder"`
	DaysUntilBirth         int                       `json:"days_until_birth"`
	Trimester              Trimester                 `json:"trimester"`
	MaternityLeaveDate     time.Time                 `json:"maternity_leave_date"`
	WeightGain             *WeightGainRecommendation `json:"weight_gain,omitempty"`
	TestDates              []TestDate                `json:"test_dates"`
	HCGLevels              []HCGLevel                `json:"hcg_levels"`
	ReferenceVersion       string                    `json:"reference_version"`
}

func IsValidCycleLength(value int) bool {
	return value >= MinCycleLength && value <= MaxCycleLength
}

// CalculatePregnancy derives all dates and labels from the last period date.
// All arithmetic is done in whole calendar days in the location of
// input.LastPeriodDate; now is reduced to its calendar day there.
func CalculatePregnancy(input PregnancyInput, now time.Time, tables *reference.Tables) (PregnancyResult, error) {
	if tables == nil {
		return PregnancyResult{}, fmt.Errorf("%w: tables are not loaded", reference.ErrReferenceTableIntegrity)
	}
	if input.LastPeriodDate.IsZero() {
		return PregnancyResult{}, ErrMalformedDate
	}

	cycleLength := input.CycleLengthDays
	if cycleLength == 0 {
		cycleLength = DefaultCycleLength
	}
	if !IsValidCycleLength(cycleLength) {
		return PregnancyResult{}, fmt.Errorf("%w: %d days", ErrInvalidCycleLength, cycleLength)
	}

	location := input.LastPeriodDate.Location()
	lastPeriod := DateAtLocation(input.LastPeriodDate, location)
	today := DateAtLocation(now, location)
	if lastPeriod.After(today) {
		return PregnancyResult{}, ErrFutureDate
	}

	var weightGain *WeightGainRecommendation
	if input.Body != nil {
		recommendation, err := recommendWeightGain(*input.Body, tables)
		if err != nil {
			return PregnancyResult{}, err
		}
		weightGain = recommendation
	}

	dueDate := lastPeriod.AddDate(0, 0, StandardTermDays+(cycleLength-DefaultCycleLength))
	gestationalAge := CalendarDaysBetween(lastPeriod, today)
	weeks := gestationalAge / 7

	return PregnancyResult{
		LastPeriodDate:         lastPeriod,
		CycleLengthDays:        cycleLength,
		ConceptionDate:         lastPeriod.AddDate(0, 0, cycleLength-LutealPhaseDays),
		DueDate:                dueDate,
		GestationalAgeDays:     gestationalAge,
		PregnancyWeeks:         weeks,
		PregnancyDaysRemainder: gestationalAge % 7,
		DaysUntilBirth:         CalendarDaysBetween(today, dueDate),
		Trimester:              TrimesterForWeek(weeks),
		MaternityLeaveDate:     dueDate.AddDate(0, 0, -MaternityLeaveDays),
		WeightGain:             weightGain,
		TestDates:              buildTestDates(lastPeriod, tables.AllTests()),
		HCGLevels:              buildHCGLevels(weeks, tables.HCGRanges()),
		ReferenceVersion:       tables.Version(),
	}, nil
}

// TrimesterForWeek has no overdue state: week 40 and later stay in the third.
func TrimesterForWeek(weeks int) Trimester {
	switch {
	case weeks < secondTrimesterWeek:
		return TrimesterFirst
	case weeks < thirdTrimesterWeek:
		return TrimesterSecond
	default:
		return TrimesterThird
	}
}

func buildTestDates(lastPeriod time.Time, schedule []reference.TestScheduleEntry) []TestDate {
	dates := make([]TestDate, 0, len(schedule))
	for _, entry := range schedule {
		dates = append(dates, TestDate{
			Key:  entry.Key,
			Date: lastPeriod.AddDate(0, 0, entry.OffsetDays()),
		})
	}
	sort.SliceStable(dates, func(i, j int) bool {
		return dates[i].Date.Before(dates[j].Date)
	})
	return dates
}

func buildHCGLevels(weeks int, rows []reference.HCGRange) []HCGLevel {
	levels := make([]HCGLevel, 0, len(rows))
	flagged := false
	for _, row := range rows {
		current := !flagged && row.Contains(weeks)
		if current {
			flagged = true
		}
		levels = append(levels, HCGLevel{
			Key:         row.Key,
			NonPregnant: row.NonPregnant,
			WeekFrom:    row.WeekFrom,
			WeekTo:      row.WeekTo,
			Low:         row.Low,
			High:        row.High,
			Unit:        row.Unit,
			IsCurrent:   current,
		})
	}
	return levels
}

func recommendWeightGain(metrics BodyMetrics, tables *reference.Tables) (*WeightGainRecommendation, error) {
	bmi, err := metrics.ResolveBMI()
	if err != nil {
		return nil, err
	}
	band, ok := tables.WeightGainFor(bmi)
	if !ok {
		return nil, nil
	}
	return &WeightGainRecommendation{
		BMI:        math.Round(bmi*10) / 10,
		Category:   band.Category,
		GainLowKg:  band.GainLowKg,
		GainHighKg: band.GainHighKg,
	}, nil
}
