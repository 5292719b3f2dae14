// Package report aggregates processed expenses into summaries and renders
// them as JSON or CSV.
package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"fjacquet/receipt-processor/internal/dateutils"
	"fjacquet/receipt-processor/internal/fileutils"
	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"
	"fjacquet/receipt-processor/internal/validation"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Build aggregates the expenses into a summary. Records without an amount
// count as zero, matching how they appear in exports. The period is the
// span of parseable record dates.
func Build(title string, expenses []models.ProcessedExpense) models.ExpenseSummary {
	summary := models.ExpenseSummary{
		Title:      title,
		Count:      len(expenses),
		ByCategory: make(map[string]decimal.Decimal),
		ByVendor:   make(map[string]decimal.Decimal),
	}

	var minDate, maxDate time.Time
	for i, expense := range expenses {
		amount := decimal.Zero
		if expense.Record.Amount != nil {
			amount = *expense.Record.Amount
		}

		summary.Total = summary.Total.Add(amount)
		if i == 0 {
			summary.Largest = amount
			summary.Smallest = amount
		} else {
			if amount.GreaterThan(summary.Largest) {
				summary.Largest = amount
			}
			if amount.LessThan(summary.Smallest) {
				summary.Smallest = amount
			}
		}

		category := expense.Category
		if category == "" {
			category = models.CategoryUncategorized
		}
		summary.ByCategory[category] = summary.ByCategory[category].Add(amount)

		vendor := expense.Record.Vendor
		if vendor == "" {
			vendor = "Unknown"
		}
		summary.ByVendor[vendor] = summary.ByVendor[vendor].Add(amount)

		if expense.RequiresReview {
			summary.ReviewCount++
		}
		if !expense.Verdict.Valid {
			summary.InvalidCount++
		}
		switch expense.Status {
		case models.StatusApproved:
			summary.ApprovedCount++
		case models.StatusRejected:
			summary.RejectedCount++
		default:
			summary.PendingCount++
		}

		if date, _, err := dateutils.ParseDate(expense.Record.Date); err == nil {
			if minDate.IsZero() || date.Before(minDate) {
				minDate = date
			}
			if maxDate.IsZero() || date.After(maxDate) {
				maxDate = date
			}
		}
	}

	if summary.Count > 0 {
		summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count))).Round(2)
	}
	summary.Period = formatPeriod(minDate, maxDate)
	return summary
}

func formatPeriod(minDate, maxDate time.Time) string {
	if minDate.IsZero() {
		return ""
	}
	if minDate.Equal(maxDate) {
		return dateutils.ToISODate(minDate)
	}
	return dateutils.ToISODate(minDate) + " to " + dateutils.ToISODate(maxDate)
}

// summaryRow is the flat CSV shape of one summary line: overall figures,
// then ranked category totals, then ranked vendor totals.
type summaryRow struct {
	Section string `csv:"Section"`
	Name    string `csv:"Name"`
	Value   string `csv:"Value"`
}

// Generator renders summaries to JSON or CSV.
type Generator struct {
	log logging.Logger
}

// NewGenerator creates a Generator. A nil logger falls back to a default
// logrus adapter.
func NewGenerator(log logging.Logger) *Generator {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{log: log}
}

// Render produces the summary in the requested output format.
func (g *Generator) Render(summary models.ExpenseSummary, format string) ([]byte, error) {
	if err := validation.IsValidOutputFormat(format); err != nil {
		return nil, err
	}

	if format == "json" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error rendering JSON summary: %w", err)
		}
		return data, nil
	}

	rows := []summaryRow{
		{Section: "summary", Name: "title", Value: summary.Title},
		{Section: "summary", Name: "period", Value: summary.Period},
		{Section: "summary", Name: "count", Value: strconv.Itoa(summary.Count)},
		{Section: "summary", Name: "total", Value: summary.Total.StringFixed(2)},
		{Section: "summary", Name: "average", Value: summary.Average.StringFixed(2)},
		{Section: "summary", Name: "largest", Value: summary.Largest.StringFixed(2)},
		{Section: "summary", Name: "smallest", Value: summary.Smallest.StringFixed(2)},
		{Section: "summary", Name: "review_count", Value: strconv.Itoa(summary.ReviewCount)},
		{Section: "summary", Name: "invalid_count", Value: strconv.Itoa(summary.InvalidCount)},
		{Section: "summary", Name: "approved_count", Value: strconv.Itoa(summary.ApprovedCount)},
		{Section: "summary", Name: "pending_count", Value: strconv.Itoa(summary.PendingCount)},
		{Section: "summary", Name: "rejected_count", Value: strconv.Itoa(summary.RejectedCount)},
	}
	for _, entry := range summary.TopCategories(0) {
		rows = append(rows, summaryRow{Section: "category", Name: entry.Name, Value: entry.Amount.StringFixed(2)})
	}
	for _, entry := range summary.TopVendors(0) {
		rows = append(rows, summaryRow{Section: "vendor", Name: entry.Name, Value: entry.Amount.StringFixed(2)})
	}

	data, err := gocsv.MarshalString(rows)
	if err != nil {
		return nil, fmt.Errorf("error rendering CSV summary: %w", err)
	}
	return []byte(data), nil
}

// Write renders the summary and writes it to a file, creating the
// directory if needed.
func (g *Generator) Write(summary models.ExpenseSummary, format, path string) error {
	data, err := g.Render(summary, format)
	if err != nil {
		return err
	}

	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing summary file: %w", err)
	}

	g.log.Info("Summary written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: summary.Count},
	)
	return nil
}
