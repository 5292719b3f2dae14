package extractor

import (
	"context"

	"fjacquet/receipt-processor/internal/models"
)

// MockAIClient is a mock implementation of AIClient for testing.
type MockAIClient struct {
	Record models.Record
	Err    error

	// Calls records the recognized text of each extraction request.
	Calls []string
}

var _ AIClient = (*MockAIClient)(nil)

// ExtractRecord returns the configured record or error.
func (m *MockAIClient) ExtractRecord(_ context.Context, recognized string) (models.Record, error) {
	m.Calls = append(m.Calls, recognized)
	if m.Err != nil {
		return models.Record{}, m.Err
	}
	return m.Record, nil
}
