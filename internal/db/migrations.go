package db

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	embeddedmigrations "github.com/terraincognita07/pregcalc/migrations"
	"gorm.io/gorm"
)

// ErrMigrationChanged is returned when an already applied migration file no
// longer matches the checksum recorded when it ran.
var ErrMigrationChanged = errors.New("applied migration was modified")

// schemaMigration is one row of the migration ledger.
type schemaMigration struct {
	Version   string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Checksum  string `gorm:"not null;default:''"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migrationFile struct {
	version  string
	order    int
	name     string
	body     string
	checksum string
}

// migrator applies forward-only SQL files in numeric order. Each file runs in
// its own transaction together with its ledger row.
type migrator struct {
	database *gorm.DB
	files    fs.FS
	logger   zerolog.Logger
	now      func() time.Time
}

func applyEmbeddedMigrations(database *gorm.DB, logger zerolog.Logger) error {
	return migrator{
		database: database,
		files:    embeddedmigrations.Files,
		logger:   logger,
		now:      time.Now,
	}.run()
}

func (m migrator) run() error {
	if err := m.database.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("prepare schema_migrations: %w", err)
	}

	pending, err := readMigrationFiles(m.files)
	if err != nil {
		return err
	}

	var ledger []schemaMigration
	if err := m.database.Find(&ledger).Error; err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	applied := make(map[string]schemaMigration, len(ledger))
	for _, row := range ledger {
		applied[row.Version] = row
	}

	for _, file := range pending {
		if row, done := applied[file.version]; done {
			if row.Checksum != "" && row.Checksum != file.checksum {
				return fmt.Errorf("%w: %s", ErrMigrationChanged, file.name)
			}
			continue
		}
		if err := m.apply(file); err != nil {
			return err
		}
		m.logger.Debug().Str("migration", file.name).Msg("migration applied")
	}
	return nil
}

func (m migrator) apply(file migrationFile) error {
	statements := sqlStatements(file.body)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s has no statements", file.name)
	}

	return m.database.Transaction(func(tx *gorm.DB) error {
		for index, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s statement %d: %w", file.name, index+1, err)
			}
		}
		return tx.Create(&schemaMigration{
			Version:   file.version,
			Name:      file.name,
			Checksum:  file.checksum,
			AppliedAt: m.now().UTC(),
		}).Error
	})
}

// readMigrationFiles picks up NNN_description.sql files; anything else in the
// directory is ignored.
func readMigrationFiles(files fs.FS) ([]migrationFile, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	result := make([]migrationFile, 0, len(names))
	owners := map[int]string{}
	for _, name := range names {
		prefix, _, found := strings.Cut(path.Base(name), "_")
		order, convErr := strconv.Atoi(prefix)
		if !found || convErr != nil || order < 0 {
			continue
		}
		if previous, taken := owners[order]; taken {
			return nil, fmt.Errorf("migrations %s and %s share version %s", previous, name, prefix)
		}
		owners[order] = name

		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		sum := sha256.Sum256(body)
		result = append(result, migrationFile{
			version:  prefix,
			order:    order,
			name:     name,
			body:     string(body),
			checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].order < result[j].order
	})
	return result, nil
}

// sqlStatements drops "--" comment lines and splits on semicolons. Migration
// files must not put semicolons inside string literals.
func sqlStatements(body string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteByte('\n')
	}

	var statements []string
	for _, chunk := range strings.Split(cleaned.String(), ";") {
		if statement := strings.TrimSpace(chunk); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
