package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

const (
	LangRU = "ru"
	LangEN = "en"
)

// Locales holds the label catalogs shipped with the binary.
//
//go:embed locales/*.json
var Locales embed.FS

// Manager resolves label keys per language. Catalogs are merged with the
// default language once at load, so a key missing from one locale falls back
// to the default wording. A Manager is read-only after construction.
type Manager struct {
	defaultLanguage string
	catalogs        map[string]map[string]string
	supported       []string
}

// NewManager loads every <lang>.json file found at the root of localesFS.
// Both ru and en catalogs are required; an unsupported defaultLanguage
// falls back to ru.
func NewManager(defaultLanguage string, localesFS fs.FS) (*Manager, error) {
	catalogs, err := readCatalogs(localesFS)
	if err != nil {
		return nil, err
	}
	for _, required := range []string{LangRU, LangEN} {
		if _, ok := catalogs[required]; !ok {
			return nil, fmt.Errorf("required locale %q missing", required)
		}
	}

	supported := make([]string, 0, len(catalogs))
	for language := range catalogs {
		supported = append(supported, language)
	}
	sort.Strings(supported)

	fallback := normalizeLanguageTag(defaultLanguage)
	if _, ok := catalogs[fallback]; !ok {
		fallback = LangRU
	}

	merged := make(map[string]map[string]string, len(catalogs))
	for language, messages := range catalogs {
		combined := make(map[string]string, len(catalogs[fallback])+len(messages))
		for key, value := range catalogs[fallback] {
			combined[key] = value
		}
		for key, value := range messages {
			if strings.TrimSpace(value) != "" {
				combined[key] = value
			}
		}
		merged[language] = combined
	}

	return &Manager{
		defaultLanguage: fallback,
		catalogs:        merged,
		supported:       supported,
	}, nil
}

// NewEmbeddedManager builds a Manager from the catalogs compiled into the binary.
func NewEmbeddedManager(defaultLanguage string) (*Manager, error) {
	localesFS, err := fs.Sub(Locales, "locales")
	if err != nil {
		return nil, fmt.Errorf("open embedded locales: %w", err)
	}
	return NewManager(defaultLanguage, localesFS)
}

func readCatalogs(localesFS fs.FS) (map[string]map[string]string, error) {
	entries, err := fs.ReadDir(localesFS, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	catalogs := map[string]map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".json" {
			continue
		}

		language := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
		content, err := fs.ReadFile(localesFS, name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}
		catalogs[language] = messages
	}

	if len(catalogs) == 0 {
		return nil, fmt.Errorf("no locales found")
	}
	return catalogs, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.supported...)
}

// NormalizeLanguage reduces a tag such as "en-US" to a supported base
// language, or returns the default.
func (manager *Manager) NormalizeLanguage(raw string) string {
	if language := normalizeLanguageTag(raw); manager.isSupported(language) {
		return language
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the supported language with the highest
// q-value; ties keep header order and q=0 entries are ignored.
func (manager *Manager) DetectFromAcceptLanguage(header string) string {
	type candidate struct {
		language string
		weight   float64
	}

	candidates := make([]candidate, 0, 4)
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		language := normalizeLanguageTag(fields[0])
		if !manager.isSupported(language) {
			continue
		}

		weight := 1.0
		for _, parameter := range fields[1:] {
			name, value, found := strings.Cut(strings.TrimSpace(parameter), "=")
			if !found || strings.TrimSpace(name) != "q" {
				continue
			}
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				weight = parsed
			}
		}
		if weight <= 0 {
			continue
		}
		candidates = append(candidates, candidate{language: language, weight: weight})
	}

	if len(candidates) == 0 {
		return manager.defaultLanguage
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].weight > candidates[j].weight
	})
	return candidates[0].language
}

// Messages returns a copy of the merged catalog for language.
func (manager *Manager) Messages(language string) map[string]string {
	catalog := manager.catalogs[manager.NormalizeLanguage(language)]
	result := make(map[string]string, len(catalog))
	for key, value := range catalog {
		result[key] = value
	}
	return result
}

// Translate returns the key itself when no catalog has a value for it.
func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.catalogs[manager.NormalizeLanguage(language)][key]; ok {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

func (manager *Manager) isSupported(language string) bool {
	_, ok := manager.catalogs[language]
	return language != "" && ok
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	base, _, _ := strings.Cut(language, "-")
	return base
}
