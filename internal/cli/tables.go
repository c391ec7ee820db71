package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/pregcalc/internal/db"
	"github.com/terraincognita07/pregcalc/internal/reference"
)

// LoadTables returns the embedded tables when dbPath is empty and the stored
// revision otherwise. Either way the result has passed validation.
func LoadTables(dbPath string, logger zerolog.Logger) (*reference.Tables, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		tables, err := reference.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded reference tables: %w", err)
		}
		return tables, nil
	}

	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("reference database %s: %w", dbPath, err)
	}

	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	tables, err := db.NewReferenceRepository(database).Load()
	if err != nil {
		return nil, fmt.Errorf("load reference tables from %s: %w", dbPath, err)
	}
	return tables, nil
}

func RunTablesValidateCommand(out io.Writer, dbPath string, logger zerolog.Logger) error {
	tables, err := LoadTables(dbPath, logger)
	if err != nil {
		return err
	}

	source := "embedded"
	if strings.TrimSpace(dbPath) != "" {
		source = dbPath
	}
	fmt.Fprintf(out, "reference tables %s (%s): OK\n", tables.Version(), source)
	fmt.Fprintf(out, "  tests: %d\n", len(tables.AllTests()))
	fmt.Fprintf(out, "  hcg ranges: %d\n", len(tables.HCGRanges()))
	fmt.Fprintf(out, "  weight gain bands: %d\n", len(tables.WeightGainBands()))
	return nil
}

// RunTablesSeedCommand writes tables into the SQLite store at dbPath. The
// source is the embedded document unless sourcePath names a YAML file.
func RunTablesSeedCommand(out io.Writer, dbPath string, sourcePath string, logger zerolog.Logger) error {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return errors.New("database path is required")
	}

	tables, err := tablesFromSource(sourcePath)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.NewReferenceRepository(database).Save(tables); err != nil {
		return fmt.Errorf("store reference tables: %w", err)
	}

	fmt.Fprintf(out, "reference tables %s stored in %s\n", tables.Version(), dbPath)
	return nil
}

// RunTablesExportCommand prints the active tables as YAML in the same format
// the embedded document uses.
func RunTablesExportCommand(out io.Writer, dbPath string, logger zerolog.Logger) error {
	tables, err := LoadTables(dbPath, logger)
	if err != nil {
		return err
	}

	content, err := reference.Marshal(tables)
	if err != nil {
		return fmt.Errorf("render reference tables: %w", err)
	}
	_, err = out.Write(content)
	return err
}

func tablesFromSource(sourcePath string) (*reference.Tables, error) {
	sourcePath = strings.TrimSpace(sourcePath)
	if sourcePath == "" {
		return reference.Default()
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("read reference tables file: %w", err)
	}
	return reference.Parse(content)
}
