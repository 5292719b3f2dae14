// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/receipt-processor/internal/fileutils"
	"fjacquet/receipt-processor/internal/models"
	"fjacquet/receipt-processor/internal/validation"

	"github.com/shopspring/decimal"
)

// ResolveInput normalizes a user-supplied path to an absolute one and
// checks that it exists before any file access happens.
func ResolveInput(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("input file must be specified")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path %s: %w", path, err)
	}
	if err := validation.IsValidPath(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// RecordFromFlags builds a single record from command-line values. The
// amount stays unset when empty. Flag-built records carry full extraction
// confidence because a human typed them.
func RecordFromFlags(vendor, amount, date string, items []string, text string) (models.Record, error) {
	var amt *decimal.Decimal
	if amount != "" {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return models.Record{}, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		amt = &d
	}
	return models.NewRecord(vendor, amt, date, items, text, 1.0), nil
}

// WriteExpenses serializes processed expenses to a JSON file, creating the
// target directory when needed.
func WriteExpenses(path string, expenses []models.ProcessedExpense) error {
	data, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling expenses: %w", err)
	}
	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("writing expenses file %s: %w", path, err)
	}
	return nil
}

// ReadExpenses loads processed expenses from a JSON file written by
// WriteExpenses or by an external workflow.
func ReadExpenses(path string) ([]models.ProcessedExpense, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("could not read expenses file %s: %w", path, err)
	}
	var expenses []models.ProcessedExpense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("could not parse expenses file %s: %w", path, err)
	}
	return expenses, nil
}
