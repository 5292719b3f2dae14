// Package store provides loading of category definitions and expense rules
// from YAML configuration files.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fjacquet/receipt-processor/internal/fileutils"
	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"

	"gopkg.in/yaml.v3"
)

// Store is the read interface for category definitions and expense rules.
// Implementations must return categories in a stable order; downstream
// tie-breaking depends on it.
type Store interface {
	LoadCategories() ([]models.CategoryDefinition, error)
	LoadRules() ([]models.ExpenseRule, error)
}

// CategoryStore loads category definitions and expense rules from YAML
// files. A missing or unreadable categories file is not an error: the
// built-in definitions are returned instead so categorization always has
// something to work with.
type CategoryStore struct {
	CategoriesFile string
	RulesFile      string
	log            logging.Logger
}

var _ Store = (*CategoryStore)(nil)

// NewCategoryStore creates a store reading the given files. Empty file
// names fall back to categories.yaml and rules.yaml resolved through the
// standard config locations.
func NewCategoryStore(categoriesFile, rulesFile string, log logging.Logger) *CategoryStore {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		RulesFile:      rulesFile,
		log:            log,
	}
}

// FindConfigFile looks for a configuration file in standard locations:
// the working directory, ./config/, then ~/.config/receipt-processor/.
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "receipt-processor", filename)
		if fileutils.FileExists(configPath) {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCategories loads category definitions from the YAML file. Any failure
// to find, read, or parse the file degrades to the built-in definitions
// with a warning. The returned slice always contains the "Miscellaneous"
// and "Uncategorized" catch-all entries.
func (s *CategoryStore) LoadCategories() ([]models.CategoryDefinition, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.log.Warn("Categories file not found, using built-in definitions",
			logging.Field{Key: logging.FieldFile, Value: filename})
		return ensureCatchAll(DefaultCategories()), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		s.log.WithError(err).Warn("Could not read categories file, using built-in definitions",
			logging.Field{Key: logging.FieldFile, Value: filePath})
		return ensureCatchAll(DefaultCategories()), nil
	}

	categories, err := parseCategories(data)
	if err != nil || len(categories) == 0 {
		s.log.WithError(err).Warn("Could not parse categories file, using built-in definitions",
			logging.Field{Key: logging.FieldFile, Value: filePath})
		return ensureCatchAll(DefaultCategories()), nil
	}

	s.log.Debug("Loaded categories",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return ensureCatchAll(categories), nil
}

// parseCategories accepts three document shapes: the preferred top-level
// "categories:" list, a bare list, and a mapping keyed by category name.
// Keyed mappings are sorted by name so load order stays deterministic.
func parseCategories(data []byte) ([]models.CategoryDefinition, error) {
	var wrapped models.CategoriesConfig
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Categories) > 0 {
		return wrapped.Categories, nil
	}

	var bare []models.CategoryDefinition
	if err := yaml.Unmarshal(data, &bare); err == nil && len(bare) > 0 {
		return bare, nil
	}

	var keyed map[string]models.CategoryDefinition
	if err := yaml.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("error parsing categories file: %w", err)
	}
	names := make([]string, 0, len(keyed))
	for name := range keyed {
		names = append(names, name)
	}
	sort.Strings(names)
	categories := make([]models.CategoryDefinition, 0, len(keyed))
	for _, name := range names {
		def := keyed[name]
		def.Name = name
		categories = append(categories, def)
	}
	return categories, nil
}

// ensureCatchAll guarantees the entries every consumer relies on:
// "Miscellaneous" as the default assignment and "Uncategorized" for
// degraded results.
func ensureCatchAll(categories []models.CategoryDefinition) []models.CategoryDefinition {
	present := make(map[string]bool, len(categories))
	for _, c := range categories {
		present[c.Name] = true
	}
	if !present[models.CategoryMiscellaneous] {
		categories = append(categories, miscellaneousDefinition())
	}
	if !present[models.CategoryUncategorized] {
		categories = append(categories, models.CategoryDefinition{
			Name:        models.CategoryUncategorized,
			Description: "Expenses that could not be classified",
		})
	}
	return categories
}

// LoadRules loads expense rules from the YAML file. A missing file means no
// rules: a warning is logged and an empty set returned. Unreadable or
// malformed files are reported as errors.
func (s *CategoryStore) LoadRules() ([]models.ExpenseRule, error) {
	filename := s.RulesFile
	if filename == "" {
		filename = "rules.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.log.Warn("Rules file not found, continuing without expense rules",
			logging.Field{Key: logging.FieldFile, Value: filename})
		return []models.ExpenseRule{}, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var config models.RulesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		// Same tolerance as categories: accept a bare list without the
		// top-level key.
		var bare []models.ExpenseRule
		if bareErr := yaml.Unmarshal(data, &bare); bareErr != nil {
			return nil, fmt.Errorf("error parsing rules file: %w", err)
		}
		config.Rules = bare
	}

	s.log.Debug("Loaded expense rules",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(config.Rules)})
	return config.Rules, nil
}
