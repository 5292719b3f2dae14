// Package models provides the data structures used throughout the application.
package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Record represents the structured data extracted from a single receipt.
// It is produced by an extraction source (AI vision, a JSON file, manual
// entry) and is never mutated by the processing core.
type Record struct {
	ID         string           `json:"id"`
	Vendor     string           `json:"vendor"`
	Amount     *decimal.Decimal `json:"amount"`
	Date       string           `json:"date"`
	Items      []string         `json:"items,omitempty"`
	Text       string           `json:"text,omitempty"`
	Confidence float64          `json:"confidence"`
}

// NewRecord creates a Record with a fresh identifier and normalized fields.
// Vendor and date are trimmed, blank items are dropped. The amount is kept
// exactly as extracted; sign and range problems are for validation to report.
func NewRecord(vendor string, amount *decimal.Decimal, date string, items []string, text string, confidence float64) Record {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return Record{
		ID:         uuid.New().String(),
		Vendor:     strings.TrimSpace(vendor),
		Amount:     amount,
		Date:       strings.TrimSpace(date),
		Items:      cleaned,
		Text:       text,
		Confidence: confidence,
	}
}

// KnownAmount reports whether the record carries a usable amount.
// Nil and zero amounts both count as unknown.
func (r Record) KnownAmount() bool {
	return r.Amount != nil && !r.Amount.IsZero()
}
