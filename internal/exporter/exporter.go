// Package exporter writes processed expenses to CSV in the bookkeeping
// layout: one row per expense with the spreadsheet columns plus the
// validation verdict columns.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/receipt-processor/internal/dateutils"
	"fjacquet/receipt-processor/internal/fileutils"
	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"

	"github.com/gocarina/gocsv"
)

// Exporter writes expense CSV files with a configurable delimiter. The
// header row can be suppressed for appending to existing spreadsheets.
type Exporter struct {
	delimiter      rune
	includeHeaders bool
	log            logging.Logger
}

// NewExporter creates an Exporter. A zero delimiter falls back to a comma;
// a nil logger falls back to a default logrus adapter.
func NewExporter(delimiter rune, includeHeaders bool, log logging.Logger) *Exporter {
	if delimiter == 0 {
		delimiter = ','
	}
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &Exporter{delimiter: delimiter, includeHeaders: includeHeaders, log: log}
}

// expenseRow is the flat CSV shape of one processed expense.
type expenseRow struct {
	Date                 string `csv:"Date"`
	Vendor               string `csv:"Vendor"`
	Amount               string `csv:"Amount"`
	Category             string `csv:"Category"`
	Description          string `csv:"Description"`
	AccountCode          string `csv:"Account Code"`
	Department           string `csv:"Department"`
	Status               string `csv:"Status"`
	RequiresReview       string `csv:"Requires Review"`
	ConfidenceScore      string `csv:"Confidence Score"`
	Notes                string `csv:"Notes"`
	ProcessingDate       string `csv:"Processing Date"`
	Valid                string `csv:"Valid"`
	Errors               string `csv:"Errors"`
	Warnings             string `csv:"Warnings"`
	ValidationConfidence string `csv:"Validation Confidence"`
}

func newExpenseRow(expense models.ProcessedExpense) expenseRow {
	date := expense.Record.Date
	if date != "" {
		if parsed, _, err := dateutils.ParseDate(date); err == nil {
			date = dateutils.ToISODate(parsed)
		}
	}

	var amount string
	if expense.Record.Amount != nil {
		amount = expense.Record.Amount.StringFixed(2)
	}

	return expenseRow{
		Date:                 date,
		Vendor:               expense.Record.Vendor,
		Amount:               amount,
		Category:             expense.Category,
		Description:          expense.Description,
		AccountCode:          expense.AccountCode,
		Department:           expense.Department,
		Status:               expense.Status,
		RequiresReview:       yesNo(expense.RequiresReview),
		ConfidenceScore:      fmt.Sprintf("%.2f", expense.Confidence),
		Notes:                expense.Notes,
		ProcessingDate:       expense.ProcessedAt.Format(dateutils.DateLayoutMinute),
		Valid:                yesNo(expense.Verdict.Valid),
		Errors:               strings.Join(expense.Verdict.Errors, "; "),
		Warnings:             strings.Join(expense.Verdict.Warnings, "; "),
		ValidationConfidence: fmt.Sprintf("%.2f", expense.Verdict.Confidence),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Export writes the expenses to a CSV file, creating the directory if
// needed. An empty batch produces a header-only file; a nil slice is an
// error.
func (e *Exporter) Export(expenses []models.ProcessedExpense, csvFile string) error {
	if expenses == nil {
		return fmt.Errorf("cannot write nil expenses to CSV")
	}

	e.log.Info("Writing expenses to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(expenses)},
	)

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(csvFile)); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]expenseRow, 0, len(expenses))
	for i := range expenses {
		rows = append(rows, newExpenseRow(expenses[i]))
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = e.delimiter
	safeWriter := gocsv.NewSafeCSVWriter(csvWriter)
	if e.includeHeaders {
		err = gocsv.MarshalCSV(rows, safeWriter)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(rows, safeWriter)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	e.log.Info("Successfully wrote expenses to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(expenses)},
	)
	return nil
}
