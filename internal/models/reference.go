package models

import "time"

// ReferenceVersion is the single row describing which table revision is stored.
type ReferenceVersion struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ReferenceVersion) TableName() string {
	return "reference_versions"
}

type TestScheduleEntry struct {
	ID       uint   `gorm:"primaryKey"`
	Position int    `gorm:"not null"`
	Key      string `gorm:"column:test_key;uniqueIndex;not null"`
	Week     int    `gorm:"not null"`
	Day      int    `gorm:"not null;default:0"`
}

func (TestScheduleEntry) TableName() string {
	return "test_schedule_entries"
}

type HCGRange struct {
	ID          uint    `gorm:"primaryKey"`
	Position    int     `gorm:"not null"`
	Key         string  `gorm:"column:range_key;uniqueIndex;not null"`
	NonPregnant bool    `gorm:"not null;default:false"`
	WeekFrom    int     `gorm:"not null;default:0"`
	WeekTo      int     `gorm:"not null;default:0"`
	Low         float64 `gorm:"not null"`
	High        float64 `gorm:"not null"`
	Unit        string  `gorm:"not null"`
}

func (HCGRange) TableName() string {
	return "hcg_ranges"
}

type WeightGainBand struct {
	ID         uint    `gorm:"primaryKey"`
	Position   int     `gorm:"not null"`
	Category   string  `gorm:"uniqueIndex;not null"`
	BMIFrom    float64 `gorm:"column:bmi_from;not null"`
	BMITo      float64 `gorm:"column:bmi_to;not null;default:0"`
	GainLowKg  float64 `gorm:"column:gain_low_kg;not null"`
	GainHighKg float64 `gorm:"column:gain_high_kg;not null"`
}

func (WeightGainBand) TableName() string {
	return "weight_gain_bands"
}
