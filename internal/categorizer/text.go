package categorizer

import (
	"strings"

	"fjacquet/receipt-processor/internal/models"
)

// TextStrategy categorizes from everything textual on the record: vendor,
// items, and the recognized text combined. Raw keyword hits are normalized
// by the total word count so long receipts do not dominate, and the best
// category must clear a minimum threshold.
type TextStrategy struct {
	index  *categoryIndex
	scorer *Scorer
}

// Name returns the name of this strategy for logging and debugging.
func (s *TextStrategy) Name() string {
	return "Text"
}

// Categorize scores every category over the combined record text.
func (s *TextStrategy) Categorize(record models.Record) (models.CategoryAssignment, bool) {
	var parts []string
	if record.Vendor != "" {
		parts = append(parts, record.Vendor)
	}
	parts = append(parts, record.Items...)
	if record.Text != "" {
		parts = append(parts, record.Text)
	}

	combined := strings.ToLower(strings.Join(parts, " "))
	if strings.TrimSpace(combined) == "" {
		return models.CategoryAssignment{}, false
	}

	wordCount := len(strings.Fields(combined))

	best := ""
	bestScore := 0.0
	for _, name := range s.index.names {
		hits := s.index.countKeywords(name, combined)
		score := float64(hits) / float64(wordCount) * 100
		if score > bestScore {
			best = name
			bestScore = score
		}
	}

	if bestScore <= textScoreThreshold {
		return models.CategoryAssignment{}, false
	}

	return models.CategoryAssignment{
		Category:   best,
		Confidence: s.scorer.textComponent(record, best),
		Signal:     models.SignalText,
	}, true
}
