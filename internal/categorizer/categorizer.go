// Package categorizer assigns expense categories to receipt records using
// an ordered chain of heuristics: vendor match, item keywords, full-text
// keyword density, amount heuristics, and a catch-all default. It also
// scores arbitrary (record, category) pairs so callers can rank category
// suggestions.
package categorizer

import (
	"fmt"
	"sort"

	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"
	"fjacquet/receipt-processor/internal/store"
)

// Categorizer runs the strategy chain over records. It is safe for
// concurrent use: all state is built once at construction and only read
// afterwards.
type Categorizer struct {
	categories []models.CategoryDefinition
	strategies []Strategy
	scorer     *Scorer
	log        logging.Logger
}

// NewCategorizer loads category definitions from the store and builds the
// strategy chain. The store decides what "known categories" means; the
// categorizer never reads files itself.
func NewCategorizer(s store.Store, log logging.Logger) (*Categorizer, error) {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}

	categories, err := s.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	index := newCategoryIndex(categories)
	scorer := &Scorer{index: index}

	c := &Categorizer{
		categories: categories,
		strategies: []Strategy{
			&VendorStrategy{index: index},
			&ItemsStrategy{index: index, scorer: scorer},
			&TextStrategy{index: index, scorer: scorer},
			&AmountStrategy{scorer: scorer},
			&DefaultStrategy{scorer: scorer},
		},
		scorer: scorer,
		log:    log,
	}

	log.Debug("Categorizer initialized",
		logging.Field{Key: logging.FieldCount, Value: len(categories)})
	return c, nil
}

// Categorize assigns a category to the record. It never fails: any panic
// inside a strategy degrades the result to Uncategorized with zero
// confidence instead of propagating.
func (c *Categorizer) Categorize(record models.Record) (assignment models.CategoryAssignment) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Categorization failed, falling back to Uncategorized",
				logging.Field{Key: logging.FieldRecordID, Value: record.ID},
				logging.Field{Key: logging.FieldReason, Value: fmt.Sprint(r)})
			assignment = models.CategoryAssignment{
				Category:   models.CategoryUncategorized,
				Confidence: 0.0,
				Signal:     models.SignalDefault,
			}
		}
	}()

	for _, strategy := range c.strategies {
		result, ok := strategy.Categorize(record)
		if !ok {
			continue
		}
		c.log.Debug("Record categorized",
			logging.Field{Key: logging.FieldRecordID, Value: record.ID},
			logging.Field{Key: logging.FieldCategory, Value: result.Category},
			logging.Field{Key: logging.FieldSignal, Value: result.Signal},
			logging.Field{Key: logging.FieldConfidence, Value: result.Confidence})
		return result
	}

	// Unreachable while DefaultStrategy ends the chain.
	return models.CategoryAssignment{
		Category:   models.CategoryMiscellaneous,
		Confidence: ConfidenceNeutral,
		Signal:     models.SignalDefault,
	}
}

// Score returns the confidence that record belongs to category, combining
// the applicable signal components. See Scorer for the component rules.
func (c *Categorizer) Score(record models.Record, category string) float64 {
	return c.scorer.Score(record, category)
}

// Suggest scores every known category for the record and returns the topN
// highest, descending. Ties keep category definition order, so the result
// is deterministic for a fixed store.
func (c *Categorizer) Suggest(record models.Record, topN int) []models.CategoryScore {
	if topN <= 0 {
		return []models.CategoryScore{}
	}

	scores := make([]models.CategoryScore, 0, len(c.categories))
	for _, def := range c.categories {
		scores = append(scores, models.CategoryScore{
			Category:   def.Name,
			Confidence: c.scorer.Score(record, def.Name),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})

	if len(scores) > topN {
		scores = scores[:topN]
	}
	return scores
}

// Categories returns the definitions the categorizer was built with, in
// store order.
func (c *Categorizer) Categories() []models.CategoryDefinition {
	return c.categories
}
