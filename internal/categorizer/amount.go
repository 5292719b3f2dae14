package categorizer

import (
	"github.com/shopspring/decimal"

	"fjacquet/receipt-processor/internal/models"
)

// Amount heuristic boundaries: very small purchases are presumed supplies,
// very large ones equipment.
var (
	smallPurchaseCeiling = decimal.NewFromInt(10)
	largePurchaseFloor   = decimal.NewFromInt(500)
)

// AmountStrategy falls back to simple amount heuristics when nothing
// textual matched.
type AmountStrategy struct {
	scorer *Scorer
}

// Name returns the name of this strategy for logging and debugging.
func (s *AmountStrategy) Name() string {
	return "Amount"
}

// Categorize maps very small amounts to Office Supplies and very large
// ones to Technology. Mid-range amounts carry no signal.
func (s *AmountStrategy) Categorize(record models.Record) (models.CategoryAssignment, bool) {
	if !record.KnownAmount() {
		return models.CategoryAssignment{}, false
	}

	var category string
	switch {
	case record.Amount.LessThan(smallPurchaseCeiling):
		category = models.CategoryOfficeSupplies
	case record.Amount.GreaterThan(largePurchaseFloor):
		category = models.CategoryTechnology
	default:
		return models.CategoryAssignment{}, false
	}

	return models.CategoryAssignment{
		Category:   category,
		Confidence: s.scorer.Score(record, category),
		Signal:     models.SignalAmount,
	}, true
}
