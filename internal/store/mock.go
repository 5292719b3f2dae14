package store

import (
	"fjacquet/receipt-processor/internal/models"
)

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	Categories []models.CategoryDefinition
	Rules      []models.ExpenseRule

	// Error flags for testing error conditions
	LoadCategoriesError error
	LoadRulesError      error
}

var _ Store = (*MockStore)(nil)

// LoadCategories returns the mock categories.
func (m *MockStore) LoadCategories() ([]models.CategoryDefinition, error) {
	if m.LoadCategoriesError != nil {
		return nil, m.LoadCategoriesError
	}
	return m.Categories, nil
}

// LoadRules returns the mock rules.
func (m *MockStore) LoadRules() ([]models.ExpenseRule, error) {
	if m.LoadRulesError != nil {
		return nil, m.LoadRulesError
	}
	return m.Rules, nil
}
