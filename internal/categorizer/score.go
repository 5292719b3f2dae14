package categorizer

import (
	"strings"

	"fjacquet/receipt-processor/internal/models"
)

// Confidence constants shared by the strategies and the scorer.
const (
	// ConfidenceVendorExact is assigned when a vendor matches a known
	// vendor name exactly.
	ConfidenceVendorExact = 0.9
	// ConfidenceVendorPartial is assigned on a substring match in either
	// direction.
	ConfidenceVendorPartial = 0.7
	// ConfidenceVendorMiss is the floor for the vendor component when the
	// record has a vendor that matches nothing.
	ConfidenceVendorMiss = 0.1
	// ConfidenceNeutral is returned when no scoring component applies.
	ConfidenceNeutral = 0.5

	// textHitWeight converts raw keyword hits into the text component.
	textHitWeight = 0.2
	// textScoreThreshold is the minimum normalized full-text score the
	// text strategy accepts.
	textScoreThreshold = 0.1
)

// Scorer computes per-category confidence from up to three independent
// components: vendor affinity, item keyword density, and keyword hits in
// the vendor name and recognized text. Components that have no input on
// the record are omitted from the average rather than scored as zero.
type Scorer struct {
	index *categoryIndex
}

// Score returns the confidence that record belongs to category, in [0,1].
// With no applicable component the score is ConfidenceNeutral.
func (s *Scorer) Score(record models.Record, category string) float64 {
	var components []float64
	if record.Vendor != "" {
		components = append(components, s.vendorComponent(record.Vendor, category))
	}
	if len(record.Items) > 0 {
		components = append(components, s.itemsComponent(record.Items, category))
	}
	if record.Vendor != "" || record.Text != "" {
		components = append(components, s.textComponent(record, category))
	}

	if len(components) == 0 {
		return ConfidenceNeutral
	}
	sum := 0.0
	for _, c := range components {
		sum += c
	}
	return sum / float64(len(components))
}

// vendorComponent scores the record vendor against the category's own
// vendor list: exact match, substring match, or the miss floor.
func (s *Scorer) vendorComponent(vendor, category string) float64 {
	vendorLower := strings.ToLower(vendor)
	for _, known := range s.index.vendorsOf(category) {
		if known == vendorLower {
			return ConfidenceVendorExact
		}
	}
	for _, known := range s.index.vendorsOf(category) {
		if strings.Contains(known, vendorLower) || strings.Contains(vendorLower, known) {
			return ConfidenceVendorPartial
		}
	}
	return ConfidenceVendorMiss
}

// itemsComponent is the keyword hit count across the item list normalized
// by the number of items, capped at 1.0.
func (s *Scorer) itemsComponent(items []string, category string) float64 {
	itemText := strings.ToLower(strings.Join(items, " "))
	matches := s.index.countKeywords(category, itemText)
	confidence := float64(matches) / float64(len(items))
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// textComponent weighs keyword hits in the vendor name and the recognized
// text, capped at 1.0. Categories without keywords score zero.
func (s *Scorer) textComponent(record models.Record, category string) float64 {
	if !s.index.hasKeywords(category) {
		return 0.0
	}

	hits := 0
	if record.Vendor != "" {
		hits += s.index.countKeywords(category, strings.ToLower(record.Vendor))
	}
	if record.Text != "" {
		hits += s.index.countKeywords(category, strings.ToLower(record.Text))
	}

	if hits == 0 {
		return 0.0
	}
	confidence := float64(hits) * textHitWeight
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
