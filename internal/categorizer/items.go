package categorizer

import (
	"strings"

	"fjacquet/receipt-processor/internal/models"
)

// ItemsStrategy categorizes by keyword matches across the purchased items.
// The category with the strictly highest hit count wins; ties keep the
// earlier category in definition order.
type ItemsStrategy struct {
	index  *categoryIndex
	scorer *Scorer
}

// Name returns the name of this strategy for logging and debugging.
func (s *ItemsStrategy) Name() string {
	return "Items"
}

// Categorize counts whole-word keyword hits in the joined item list.
func (s *ItemsStrategy) Categorize(record models.Record) (models.CategoryAssignment, bool) {
	if len(record.Items) == 0 {
		return models.CategoryAssignment{}, false
	}

	itemText := strings.ToLower(strings.Join(record.Items, " "))

	best := ""
	bestScore := 0
	for _, name := range s.index.names {
		score := s.index.countKeywords(name, itemText)
		if score > bestScore {
			best = name
			bestScore = score
		}
	}

	if bestScore == 0 {
		return models.CategoryAssignment{}, false
	}

	return models.CategoryAssignment{
		Category:   best,
		Confidence: s.scorer.itemsComponent(record.Items, best),
		Signal:     models.SignalItems,
	}, true
}
