package categorizer

import (
	"fjacquet/receipt-processor/internal/models"
)

// Strategy defines one categorization heuristic. Strategies are tried in a
// fixed order; the first one to claim a record wins.
type Strategy interface {
	// Categorize attempts to categorize a record using this strategy.
	// The boolean reports whether the strategy produced an assignment;
	// when false the chain moves on to the next strategy.
	Categorize(record models.Record) (models.CategoryAssignment, bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
