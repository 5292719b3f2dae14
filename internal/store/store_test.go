package store

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func categoryNames(categories []models.CategoryDefinition) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

func TestNewCategoryStore(t *testing.T) {
	s := NewCategoryStore("categories.yaml", "rules.yaml", &logging.MockLogger{})
	assert.Equal(t, "categories.yaml", s.CategoriesFile)
	assert.Equal(t, "rules.yaml", s.RulesFile)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "test content")

	s := NewCategoryStore("", "", &logging.MockLogger{})

	found, err := s.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, found)

	_, err = s.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestLoadCategories_WrappedDocument(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `categories:
  - name: Office Supplies
    description: Supplies
    keywords: ["paper", "pen"]
    vendors: ["staples"]
  - name: Travel
    keywords: ["hotel"]
`)

	s := NewCategoryStore(file, "", &logging.MockLogger{})
	categories, err := s.LoadCategories()

	require.NoError(t, err)
	names := categoryNames(categories)
	assert.Equal(t, []string{"Office Supplies", "Travel", "Miscellaneous", "Uncategorized"}, names)
	assert.Equal(t, []string{"paper", "pen"}, categories[0].Keywords)
	assert.Equal(t, []string{"staples"}, categories[0].Vendors)
}

func TestLoadCategories_BareList(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `- name: Meals & Entertainment
  keywords: ["lunch"]
- name: Miscellaneous
- name: Uncategorized
`)

	s := NewCategoryStore(file, "", &logging.MockLogger{})
	categories, err := s.LoadCategories()

	require.NoError(t, err)
	assert.Equal(t, []string{"Meals & Entertainment", "Miscellaneous", "Uncategorized"}, categoryNames(categories))
}

func TestLoadCategories_KeyedMapping(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `Travel:
  keywords: ["hotel", "flight"]
  vendors: ["hilton"]
Office Supplies:
  keywords: ["paper"]
`)

	s := NewCategoryStore(file, "", &logging.MockLogger{})
	categories, err := s.LoadCategories()

	require.NoError(t, err)
	// Keyed mappings load sorted by name.
	assert.Equal(t, []string{"Office Supplies", "Travel", "Miscellaneous", "Uncategorized"}, categoryNames(categories))
	assert.Equal(t, []string{"hotel", "flight"}, categories[1].Keywords)
}

func TestLoadCategories_MissingFileFallsBack(t *testing.T) {
	log := &logging.MockLogger{}
	s := NewCategoryStore(filepath.Join(t.TempDir(), "nope.yaml"), "", log)

	categories, err := s.LoadCategories()

	require.NoError(t, err)
	assert.Equal(t, categoryNames(append(DefaultCategories(), models.CategoryDefinition{Name: models.CategoryUncategorized})), categoryNames(categories))
	assert.True(t, log.HasEntry("WARN", "Categories file not found, using built-in definitions"))
}

func TestLoadCategories_MalformedFallsBack(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, "categories: [unclosed")

	log := &logging.MockLogger{}
	s := NewCategoryStore(file, "", log)
	categories, err := s.LoadCategories()

	require.NoError(t, err)
	assert.Contains(t, categoryNames(categories), models.CategoryMiscellaneous)
	assert.True(t, log.HasEntry("WARN", "Could not parse categories file, using built-in definitions"))
}

func TestLoadCategories_AppendsCatchAll(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `categories:
  - name: Custom
`)

	s := NewCategoryStore(file, "", &logging.MockLogger{})
	categories, err := s.LoadCategories()

	require.NoError(t, err)
	assert.Equal(t, []string{"Custom", "Miscellaneous", "Uncategorized"}, categoryNames(categories))
}

func TestLoadRules_MissingFile(t *testing.T) {
	log := &logging.MockLogger{}
	s := NewCategoryStore("", filepath.Join(t.TempDir(), "rules.yaml"), log)

	rules, err := s.LoadRules()

	require.NoError(t, err)
	assert.Empty(t, rules)
	assert.True(t, log.HasEntry("WARN", "Rules file not found, continuing without expense rules"))
}

func TestLoadRules_WrappedAndBare(t *testing.T) {
	dir := t.TempDir()

	wrapped := filepath.Join(dir, "wrapped.yaml")
	writeFile(t, wrapped, `rules:
  - name: flag-large
    priority: 5
    conditions:
      amount:
        min: 1000
    actions:
      require_approval: true
`)

	bare := filepath.Join(dir, "bare.yaml")
	writeFile(t, bare, `- name: set-dept
  conditions:
    category: Travel
  actions:
    set_department: Sales
`)

	s := NewCategoryStore("", wrapped, &logging.MockLogger{})
	rules, err := s.LoadRules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "flag-large", rules[0].Name)
	assert.True(t, rules[0].Actions.RequireApproval)

	s = NewCategoryStore("", bare, &logging.MockLogger{})
	rules, err = s.LoadRules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Sales", rules[0].Actions.SetDepartment)
}

func TestLoadRules_Malformed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rules.yaml")
	writeFile(t, file, "rules: [unclosed")

	s := NewCategoryStore("", file, &logging.MockLogger{})
	_, err := s.LoadRules()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing rules file")
}

func TestDefaultCategories(t *testing.T) {
	categories := DefaultCategories()

	require.Len(t, categories, 8)
	assert.Equal(t, []string{
		"Office Supplies",
		"Meals & Entertainment",
		"Travel",
		"Technology",
		"Marketing",
		"Utilities",
		"Professional Services",
		"Miscellaneous",
	}, categoryNames(categories))

	for _, c := range categories {
		assert.NotEmpty(t, c.Keywords, "category %s should have keywords", c.Name)
		assert.NotEmpty(t, c.Description, "category %s should have a description", c.Name)
	}
}

func TestMockStore(t *testing.T) {
	mock := &MockStore{
		Categories: []models.CategoryDefinition{{Name: "Travel"}},
		Rules:      []models.ExpenseRule{{Name: "r1", Active: true}},
	}

	categories, err := mock.LoadCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	rules, err := mock.LoadRules()
	require.NoError(t, err)
	assert.Len(t, rules, 1)

	mock.LoadCategoriesError = assert.AnError
	_, err = mock.LoadCategories()
	assert.Error(t, err)
}
