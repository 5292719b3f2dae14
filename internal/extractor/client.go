// Package extractor turns raw receipt material into structured records.
// The AI-backed client sends recognized text to a vision model and parses
// its JSON reply tolerantly; the file source reads the same wire shape from
// JSON files for offline processing and tests.
package extractor

import (
	"context"

	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"
)

// AIClient defines the interface for AI-based receipt extraction services.
// This abstraction keeps the processing pipeline testable independently of
// external API calls and provides flexibility in choosing AI providers.
type AIClient interface {
	// ExtractRecord takes recognized receipt text and returns the structured
	// record the model extracted from it, or an error if the service call
	// fails. Implementations interact with an external AI service (e.g.
	// Google Gemini).
	ExtractRecord(ctx context.Context, recognized string) (models.Record, error)
}

// ExtractAll runs extraction over a batch of recognized receipt texts.
// A failed extraction does not abort the batch: the error is logged and the
// raw text is kept in a zero-confidence record so downstream processing
// flags it for manual review. A canceled context aborts the remainder.
func ExtractAll(ctx context.Context, client AIClient, texts []string, log logging.Logger) ([]models.Record, error) {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	records := make([]models.Record, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := client.ExtractRecord(ctx, text)
		if err != nil {
			log.Error("Extraction failed, keeping raw text for review",
				logging.Field{Key: logging.FieldError, Value: err})
			records = append(records, models.NewRecord("", nil, "", nil, text, 0.0))
			continue
		}
		records = append(records, record)
	}
	log.Info("Extraction batch completed",
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records, nil
}
