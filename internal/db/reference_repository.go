package db

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/pregcalc/internal/models"
	"github.com/terraincognita07/pregcalc/internal/reference"
	"gorm.io/gorm"
)

var ErrReferenceTablesNotSeeded = errors.New("reference tables not seeded")

type ReferenceRepository struct {
	database *gorm.DB
}

func NewReferenceRepository(database *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{database: database}
}

// Save replaces the stored tables with the given revision in one transaction.
func (repo *ReferenceRepository) Save(tables *reference.Tables) error {
	if tables == nil {
		return errors.New("reference tables are required")
	}
	if err := tables.Validate(); err != nil {
		return err
	}

	return repo.database.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.ReferenceVersion{},
			&models.TestScheduleEntry{},
			&models.HCGRange{},
			&models.WeightGainBand{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		if err := tx.Create(&models.ReferenceVersion{Version: tables.Version()}).Error; err != nil {
			return fmt.Errorf("store reference version: %w", err)
		}

		schedule := tables.AllTests()
		scheduleRows := make([]models.TestScheduleEntry, 0, len(schedule))
		for position, entry := range schedule {
			scheduleRows = append(scheduleRows, models.TestScheduleEntry{
				Position: position,
				Key:      entry.Key,
				Week:     entry.Week,
				Day:      entry.Day,
			})
		}
		if err := tx.Create(&scheduleRows).Error; err != nil {
			return fmt.Errorf("store test schedule: %w", err)
		}

		hcg := tables.HCGRanges()
		hcgRows := make([]models.HCGRange, 0, len(hcg))
		for position, row := range hcg {
			hcgRows = append(hcgRows, models.HCGRange{
				Position:    position,
				Key:         row.Key,
				NonPregnant: row.NonPregnant,
				WeekFrom:    row.WeekFrom,
				WeekTo:      row.WeekTo,
				Low:         row.Low,
				High:        row.High,
				Unit:        row.Unit,
			})
		}
		if err := tx.Create(&hcgRows).Error; err != nil {
			return fmt.Errorf("store hcg ranges: %w", err)
		}

		bands := tables.WeightGainBands()
		if len(bands) == 0 {
			return nil
		}
		bandRows := make([]models.WeightGainBand, 0, len(bands))
		for position, band := range bands {
			bandRows = append(bandRows, models.WeightGainBand{
				Position:   position,
				Category:   string(band.Category),
				BMIFrom:    band.BMIFrom,
				BMITo:      band.BMITo,
				GainLowKg:  band.GainLowKg,
				GainHighKg: band.GainHighKg,
			})
		}
		if err := tx.Create(&bandRows).Error; err != nil {
			return fmt.Errorf("store weight gain bands: %w", err)
		}
		return nil
	})
}

// Load reads the stored revision back in declaration order and validates it.
func (repo *ReferenceRepository) Load() (*reference.Tables, error) {
	var version models.ReferenceVersion
	if err := repo.database.Order("id DESC").First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferenceTablesNotSeeded
		}
		return nil, fmt.Errorf("load reference version: %w", err)
	}

	var scheduleRows []models.TestScheduleEntry
	if err := repo.database.Order("position ASC").Find(&scheduleRows).Error; err != nil {
		return nil, fmt.Errorf("load test schedule: %w", err)
	}
	schedule := make([]reference.TestScheduleEntry, 0, len(scheduleRows))
	for _, row := range scheduleRows {
		schedule = append(schedule, reference.TestScheduleEntry{Key: row.Key, Week: row.Week, Day: row.Day})
	}

	var hcgRows []models.HCGRange
	if err := repo.database.Order("position ASC").Find(&hcgRows).Error; err != nil {
		return nil, fmt.Errorf("load hcg ranges: %w", err)
	}
	hcg := make([]reference.HCGRange, 0, len(hcgRows))
	for _, row := range hcgRows {
		hcg = append(hcg, reference.HCGRange{
			Key:         row.Key,
			NonPregnant: row.NonPregnant,
			WeekFrom:    row.WeekFrom,
			WeekTo:      row.WeekTo,
			Low:         row.Low,
			High:        row.High,
			Unit:        row.Unit,
		})
	}

	var bandRows []models.WeightGainBand
	if err := repo.database.Order("position ASC").Find(&bandRows).Error; err != nil {
		return nil, fmt.Errorf("load weight gain bands: %w", err)
	}
	bands := make([]reference.WeightGainBand, 0, len(bandRows))
	for _, row := range bandRows {
		bands = append(bands, reference.WeightGainBand{
			Category:   reference.BMICategory(row.Category),
			BMIFrom:    row.BMIFrom,
			BMITo:      row.BMITo,
			GainLowKg:  row.GainLowKg,
			GainHighKg: row.GainHighKg,
		})
	}

	return reference.New(version.Version, schedule, hcg, bands)
}
