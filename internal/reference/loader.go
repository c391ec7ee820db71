package reference

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/tables.yaml
var defaultTablesYAML []byte

var (
	defaultOnce   sync.Once
	defaultTables *Tables
	defaultErr    error
)

type tablesDocument struct {
	Version      string              `yaml:"version"`
	TestSchedule []TestScheduleEntry `yaml:"test_schedule"`
	HCGRanges    []HCGRange          `yaml:"hcg_ranges"`
	WeightGain   []WeightGainBand    `yaml:"weight_gain"`
}

// Parse decodes a YAML tables document and validates it.
func Parse(content []byte) (*Tables, error) {
	document := tablesDocument{}
	if err := yaml.Unmarshal(content, &document); err != nil {
		return nil, fmt.Errorf("parse reference tables: %w", err)
	}
	return New(document.Version, document.TestSchedule, document.HCGRanges, document.WeightGain)
}

// Default returns the tables embedded into the binary. The document is
// parsed once per process.
func Default() (*Tables, error) {
	defaultOnce.Do(func() {
		defaultTables, defaultErr = Parse(defaultTablesYAML)
	})
	return defaultTables, defaultErr
}

// Marshal renders tables back into the YAML document format accepted by Parse.
func Marshal(tables *Tables) ([]byte, error) {
	if tables == nil {
		return nil, errors.New("reference tables are required")
	}
	document := tablesDocument{
		Version:      tables.version,
		TestSchedule: tables.AllTests(),
		HCGRanges:    tables.HCGRanges(),
		WeightGain:   tables.WeightGainBands(),
	}
	return yaml.Marshal(document)
}
