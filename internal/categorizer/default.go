package categorizer

import (
	"fjacquet/receipt-processor/internal/models"
)

// DefaultStrategy terminates the chain: every record it sees becomes
// Miscellaneous.
type DefaultStrategy struct {
	scorer *Scorer
}

// Name returns the name of this strategy for logging and debugging.
func (s *DefaultStrategy) Name() string {
	return "Default"
}

// Categorize always succeeds with the catch-all category.
func (s *DefaultStrategy) Categorize(record models.Record) (models.CategoryAssignment, bool) {
	return models.CategoryAssignment{
		Category:   models.CategoryMiscellaneous,
		Confidence: s.scorer.Score(record, models.CategoryMiscellaneous),
		Signal:     models.SignalDefault,
	}, true
}
