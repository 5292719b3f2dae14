package categorizer

import (
	"strings"

	"fjacquet/receipt-processor/internal/models"
)

// VendorStrategy categorizes by the vendor name: an exact match against a
// known vendor decides immediately, a substring match in either direction
// decides with lower confidence.
type VendorStrategy struct {
	index *categoryIndex
}

// Name returns the name of this strategy for logging and debugging.
func (s *VendorStrategy) Name() string {
	return "Vendor"
}

// Categorize attempts to match the record's vendor against known vendors.
func (s *VendorStrategy) Categorize(record models.Record) (models.CategoryAssignment, bool) {
	vendor := strings.ToLower(strings.TrimSpace(record.Vendor))
	if vendor == "" {
		return models.CategoryAssignment{}, false
	}

	if category, ok := s.index.exactVendor(vendor); ok {
		return models.CategoryAssignment{
			Category:   category,
			Confidence: ConfidenceVendorExact,
			Signal:     models.SignalVendor,
		}, true
	}

	if category, ok := s.index.partialVendor(vendor); ok {
		return models.CategoryAssignment{
			Category:   category,
			Confidence: ConfidenceVendorPartial,
			Signal:     models.SignalVendor,
		}, true
	}

	return models.CategoryAssignment{}, false
}
