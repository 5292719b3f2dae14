// Package validation implements the quality-control engine for extracted
// receipt records. Every record is checked field by field (vendor, amount,
// date, category fit, recognized-text quality, completeness, extraction
// confidence) and the findings are collected into a models.Verdict. Checks
// are independent of one another so a verdict always reflects the complete
// picture, not just the first problem found.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"fjacquet/receipt-processor/internal/dateutils"
	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// DefaultMinConfidence is the extraction confidence below which a
	// record is flagged for manual review.
	DefaultMinConfidence = 0.8

	// DefaultMaxPastDays and DefaultMaxFutureDays bound the plausible
	// receipt date window around the current day.
	DefaultMaxPastDays   = 365
	DefaultMaxFutureDays = 30

	criticalConfidence = 0.5
	minTextQuality     = 0.5
	minCompleteness    = 0.7
)

var (
	unusuallyHighAmount = decimal.NewFromInt(50000)
	roundAmountFloor    = decimal.NewFromInt(100)
)

// vendorPlaceholders are values OCR or manual entry tends to leave behind
// instead of a real vendor name.
var vendorPlaceholders = map[string]bool{
	"unknown": true,
	"n/a":     true,
	"na":      true,
	"none":    true,
	"test":    true,
}

// ocrArtifacts are marker sequences that show up in garbled recognition
// output and almost never in genuine receipt text.
var ocrArtifacts = []string{"|||", "~~~", "###", "***"}

type amountBand struct {
	min decimal.Decimal
	max decimal.Decimal
}

// categoryBands holds the plausible amount range per expense category.
// Amounts outside the band draw a warning, never an error: unusual is not
// the same as wrong.
var categoryBands = map[string]amountBand{
	models.CategoryOfficeSupplies: {min: decimal.NewFromInt(1), max: decimal.NewFromInt(500)},
	models.CategoryMeals:          {min: decimal.NewFromInt(5), max: decimal.NewFromInt(200)},
	models.CategoryTravel:         {min: decimal.NewFromInt(10), max: decimal.NewFromInt(2000)},
	models.CategoryTechnology:     {min: decimal.NewFromInt(25), max: decimal.NewFromInt(5000)},
	models.CategoryMarketing:      {min: decimal.NewFromInt(50), max: decimal.NewFromInt(10000)},
	models.CategoryUtilities:      {min: decimal.NewFromInt(25), max: decimal.NewFromInt(1000)},
	models.CategoryProfessional:   {min: decimal.NewFromInt(100), max: decimal.NewFromInt(50000)},
	"Insurance":                   {min: decimal.NewFromInt(50), max: decimal.NewFromInt(5000)},
	"Maintenance & Repairs":       {min: decimal.NewFromInt(25), max: decimal.NewFromInt(2000)},
	models.CategoryMiscellaneous:  {min: decimal.NewFromInt(1), max: decimal.NewFromInt(1000)},
}

// knownCategories is the set of categories the validator accepts without
// comment. Anything else draws an "Unknown category" warning.
var knownCategories = func() map[string]bool {
	known := make(map[string]bool, len(categoryBands))
	for name := range categoryBands {
		known[name] = true
	}
	return known
}()

// Options tunes the validator thresholds. Zero values fall back to the
// package defaults, and Now defaults to time.Now.
type Options struct {
	MinConfidence float64
	MaxPastDays   int
	MaxFutureDays int
	Now           func() time.Time
}

// Validator runs quality-control checks over extracted records.
type Validator struct {
	minConfidence float64
	maxPastDays   int
	maxFutureDays int
	now           func() time.Time
	log           logging.Logger
}

// NewValidator creates a Validator with the given options. A nil logger
// falls back to a default logrus adapter.
func NewValidator(opts Options, log logging.Logger) *Validator {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultMinConfidence
	}
	if opts.MaxPastDays <= 0 {
		opts.MaxPastDays = DefaultMaxPastDays
	}
	if opts.MaxFutureDays <= 0 {
		opts.MaxFutureDays = DefaultMaxFutureDays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Validator{
		minConfidence: opts.MinConfidence,
		maxPastDays:   opts.MaxPastDays,
		maxFutureDays: opts.MaxFutureDays,
		now:           opts.Now,
		log:           log,
	}
}

// Validate runs every check against the record and its category assignment
// and returns the collected verdict. A check never stops the checks after
// it, so errors and warnings from different fields accumulate in one pass.
func (v *Validator) Validate(record models.Record, assignment models.CategoryAssignment) models.Verdict {
	verdict := models.NewVerdict()

	v.checkVendor(record, &verdict)
	v.checkAmount(record, &verdict)
	v.checkDate(record, &verdict)
	v.checkCategory(record, assignment.Category, &verdict)
	v.checkTextQuality(record, &verdict)
	v.checkCompleteness(record, assignment.Category, &verdict)
	v.checkConfidence(record, &verdict)

	v.log.Debug("Record validated",
		logging.Field{Key: logging.FieldRecordID, Value: record.ID},
		logging.Field{Key: "valid", Value: verdict.Valid},
		logging.Field{Key: "errors", Value: len(verdict.Errors)},
		logging.Field{Key: "warnings", Value: len(verdict.Warnings)},
	)
	return verdict
}

func (v *Validator) checkVendor(record models.Record, verdict *models.Verdict) {
	if record.Vendor == "" {
		verdict.AddError("Vendor name is missing")
		return
	}

	vendor := record.Vendor
	if utf8.RuneCountInString(strings.TrimSpace(vendor)) < 2 {
		verdict.AddError("Vendor name too short")
	}
	if utf8.RuneCountInString(vendor) > 100 {
		verdict.AddWarning("Vendor name unusually long")
	}
	if vendorPlaceholders[strings.ToLower(vendor)] {
		verdict.AddWarning("Vendor name appears to be placeholder")
		verdict.Penalize(0.3)
	}
	// A high ratio of special characters usually means the vendor line came
	// out of OCR mangled.
	if float64(specialCharCount(vendor)) > float64(utf8.RuneCountInString(vendor))*0.2 {
		verdict.AddWarning("Vendor name contains many special characters")
		verdict.Penalize(0.2)
	}
}

func (v *Validator) checkAmount(record models.Record, verdict *models.Verdict) {
	if record.Amount == nil {
		verdict.AddError("Amount is missing")
		return
	}

	amount := *record.Amount
	if !amount.IsPositive() {
		verdict.AddError("Amount must be positive")
	}
	if amount.GreaterThan(unusuallyHighAmount) {
		verdict.AddWarning("Amount is unusually high")
		verdict.Penalize(0.1)
	}
	// Round three-plus digit amounts often mean someone estimated instead
	// of reading the receipt.
	if amount.IsInteger() && amount.GreaterThanOrEqual(roundAmountFloor) {
		verdict.AddWarning("Amount is a round number - verify accuracy")
		verdict.Penalize(0.1)
	}
	if amount.Exponent() < -2 {
		verdict.AddWarning("Amount has more than 2 decimal places")
	}
}

func (v *Validator) checkDate(record models.Record, verdict *models.Verdict) {
	if record.Date == "" {
		verdict.AddWarning("Date is missing")
		return
	}

	parsed, _, err := dateutils.ParseDate(record.Date)
	if err != nil {
		verdict.AddError(fmt.Sprintf("Invalid date format: %s", record.Date))
		return
	}

	now := v.now()
	if parsed.Before(now.AddDate(0, 0, -v.maxPastDays)) {
		verdict.AddWarning("Date is more than one year old")
	}
	if parsed.After(now.AddDate(0, 0, v.maxFutureDays)) {
		verdict.AddWarning("Date is in the future")
		verdict.Penalize(0.2)
	}
}

func (v *Validator) checkCategory(record models.Record, category string, verdict *models.Verdict) {
	if category == "" {
		verdict.AddError("Category is missing")
		return
	}

	if !knownCategories[category] {
		verdict.AddWarning(fmt.Sprintf("Unknown category: %s", category))
	}

	if !record.KnownAmount() {
		return
	}
	band, ok := categoryBands[category]
	if !ok {
		return
	}

	amount := *record.Amount
	if amount.LessThan(band.min) {
		verdict.AddWarning(fmt.Sprintf("Amount $%s is low for category '%s'", amount.StringFixed(2), category))
	} else if amount.GreaterThan(band.max) {
		verdict.AddWarning(fmt.Sprintf("Amount $%s is high for category '%s'", amount.StringFixed(2), category))
	}
}

func (v *Validator) checkTextQuality(record models.Record, verdict *models.Verdict) {
	if record.Text == "" {
		return
	}
	if TextQuality(record.Text) < minTextQuality {
		verdict.AddWarning("Poor OCR text quality detected")
		verdict.Penalize(0.2)
	}
}

func (v *Validator) checkCompleteness(record models.Record, category string, verdict *models.Verdict) {
	if Completeness(record, category) < minCompleteness {
		verdict.AddWarning("Incomplete data - manual review recommended")
		verdict.Penalize(0.3)
	}
}

func (v *Validator) checkConfidence(record models.Record, verdict *models.Verdict) {
	if record.Confidence < v.minConfidence {
		verdict.AddWarning(fmt.Sprintf("Low confidence score: %.2f", record.Confidence))
		verdict.Penalize(0.2)
	}
	if record.Confidence < criticalConfidence {
		verdict.AddError("Very low confidence - manual review required")
	}
}

// TextQuality estimates how readable a block of recognized text is, as a
// score in [0, 1]. It starts from the fraction of alphanumeric-or-space
// characters and subtracts 0.1 per artifact marker occurrence, capped at
// 0.5. Empty text scores 0.
func TextQuality(text string) float64 {
	if text == "" {
		return 0
	}

	readable := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			readable++
		}
	}
	quality := float64(readable) / float64(total)

	penalty := 0.0
	for _, artifact := range ocrArtifacts {
		penalty += float64(strings.Count(text, artifact)) * 0.1
	}
	if penalty > 0.5 {
		penalty = 0.5
	}

	quality -= penalty
	if quality < 0 {
		return 0
	}
	if quality > 1 {
		return 1
	}
	return quality
}

// Completeness reports the fraction of the five core expense fields
// (vendor, amount, date, category, description) present on the record.
// The description counts as present whenever the processing pipeline would
// derive one, which requires a vendor.
func Completeness(record models.Record, category string) float64 {
	present := 0
	if record.Vendor != "" {
		present++
	}
	if record.KnownAmount() {
		present++
	}
	if record.Date != "" {
		present++
	}
	if category != "" {
		present++
	}
	if models.DeriveDescription(record.Vendor, category) != "" {
		present++
	}
	return float64(present) / 5
}

func specialCharCount(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case ' ', '-', '&', '.':
			continue
		}
		count++
	}
	return count
}
