package processor_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fjacquet/receipt-processor/internal/batch"
	"fjacquet/receipt-processor/internal/categorizer"
	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"
	"fjacquet/receipt-processor/internal/processor"
	"fjacquet/receipt-processor/internal/rules"
	"fjacquet/receipt-processor/internal/store"
	"fjacquet/receipt-processor/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func amt(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testCategories() []models.CategoryDefinition {
	return []models.CategoryDefinition{
		{Name: models.CategoryOfficeSupplies, Vendors: []string{"staples"}, Keywords: []string{"paper", "pens"}},
		{Name: models.CategoryTravel, Vendors: []string{"delta airlines", "uber"}, Keywords: []string{"flight"}},
	}
}

func newTestProcessor(t *testing.T, opts processor.Options, ruleSet []models.ExpenseRule) (*processor.Processor, *logging.MockLogger) {
	t.Helper()

	mockLog := &logging.MockLogger{}
	mockStore := &store.MockStore{Categories: testCategories(), Rules: ruleSet}

	cat, err := categorizer.NewCategorizer(mockStore, mockLog)
	require.NoError(t, err)
	engine, err := rules.NewEngine(mockStore, mockLog)
	require.NoError(t, err)
	validator := validation.NewValidator(validation.Options{Now: func() time.Time { return testNow }}, mockLog)
	checker := batch.NewChecker(mockLog)

	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	return processor.NewProcessor(cat, engine, validator, checker, opts, mockLog), mockLog
}

func TestProcess_CleanRecord(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	record := models.NewRecord("Staples", amt("45.99"), "2024-01-15", nil, "", 0.92)
	expense, err := p.Process(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, models.CategoryOfficeSupplies, expense.Category)
	assert.Equal(t, models.SignalVendor, expense.Signal)
	assert.Equal(t, 0.9, expense.Confidence)
	assert.Equal(t, models.StatusProcessed, expense.Status)
	assert.Equal(t, "Staples - Office Supplies", expense.Description)
	assert.False(t, expense.RequiresReview)
	assert.Empty(t, expense.Notes)
	assert.Equal(t, testNow, expense.ProcessedAt)

	assert.True(t, expense.Verdict.Valid)
	assert.Empty(t, expense.Verdict.Errors)
	assert.Empty(t, expense.Verdict.Warnings)
}

func TestProcess_LowExtractionConfidence(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	record := models.NewRecord("Staples", amt("45.99"), "2024-01-15", nil, "", 0.65)
	expense, err := p.Process(context.Background(), record)

	require.NoError(t, err)
	assert.True(t, expense.Verdict.Valid)
	assert.True(t, expense.RequiresReview)
}

func TestProcess_HighAmountFlagged(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	record := models.NewRecord("Staples", amt("1500.50"), "2024-01-15", nil, "", 0.92)
	expense, err := p.Process(context.Background(), record)

	require.NoError(t, err)
	assert.True(t, expense.RequiresReview)
	assert.Equal(t, "High amount expense - requires approval.", expense.Notes)
	assert.True(t, expense.Verdict.Valid)
	assert.Contains(t, expense.Verdict.Warnings, "Amount $1500.50 is high for category 'Office Supplies'")
}

func TestProcess_MissingVendorRequiresReview(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	record := models.NewRecord("", amt("25.00"), "2024-01-15", nil, "", 0.9)
	expense, err := p.Process(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, models.CategoryMiscellaneous, expense.Category)
	assert.Equal(t, models.SignalDefault, expense.Signal)
	assert.False(t, expense.Verdict.Valid)
	assert.True(t, expense.RequiresReview)
	assert.Empty(t, expense.Description)
}

func TestProcess_RuleEffects(t *testing.T) {
	ruleSet := []models.ExpenseRule{
		{
			Name:       "staples office",
			Priority:   10,
			Active:     true,
			Conditions: map[string]models.RuleCondition{"vendor": {Contains: "staples"}},
			Actions: models.RuleActions{
				SetAccountCode: "6100",
				SetDepartment:  "Operations",
				AddNote:        "auto-filed",
			},
		},
	}
	p, _ := newTestProcessor(t, processor.Options{}, ruleSet)

	record := models.NewRecord("Staples", amt("45.99"), "2024-01-15", nil, "", 0.92)
	expense, err := p.Process(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, "6100", expense.AccountCode)
	assert.Equal(t, "Operations", expense.Department)
	assert.Equal(t, "auto-filed", expense.Notes)
	assert.Equal(t, "Staples - Office Supplies", expense.Description)
}

func TestProcess_HighAmountNoteAppendsToRuleNotes(t *testing.T) {
	ruleSet := []models.ExpenseRule{
		{
			Name:       "staples office",
			Priority:   10,
			Active:     true,
			Conditions: map[string]models.RuleCondition{"vendor": {Contains: "staples"}},
			Actions:    models.RuleActions{AddNote: "auto-filed"},
		},
	}
	p, _ := newTestProcessor(t, processor.Options{}, ruleSet)

	record := models.NewRecord("Staples", amt("1500.50"), "2024-01-15", nil, "", 0.92)
	expense, err := p.Process(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, "auto-filed High amount expense - requires approval.", expense.Notes)
}

func TestProcess_ValidatesCategorySetByRule(t *testing.T) {
	ruleSet := []models.ExpenseRule{
		{
			Name:       "staples is travel",
			Priority:   10,
			Active:     true,
			Conditions: map[string]models.RuleCondition{"vendor": {Contains: "staples"}},
			Actions:    models.RuleActions{SetCategory: models.CategoryTravel},
		},
	}
	p, _ := newTestProcessor(t, processor.Options{}, ruleSet)

	// 5.00 sits inside the Office Supplies band but below the Travel band,
	// so the warning proves validation saw the rule's category.
	record := models.NewRecord("Staples", amt("5.00"), "2024-01-15", nil, "", 0.92)
	expense, err := p.Process(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, models.CategoryTravel, expense.Category)
	assert.Equal(t, models.SignalVendor, expense.Signal)
	assert.Contains(t, expense.Verdict.Warnings, "Amount $5.00 is low for category 'Travel'")
}

func TestProcess_CanceledContext(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	expense, err := p.Process(ctx, models.NewRecord("Staples", amt("45.99"), "2024-01-15", nil, "", 0.92))
	require.Error(t, err)
	assert.Equal(t, models.ProcessedExpense{}, expense)
}

func TestProcessBatch_DuplicatePairFlagged(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	records := []models.Record{
		models.NewRecord("Acme Corp", amt("20.00"), "2024-01-15", nil, "", 0.9),
		models.NewRecord("Acme Corp", amt("20.00"), "2024-01-15", nil, "", 0.9),
	}

	expenses, err := p.ProcessBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	for _, expense := range expenses {
		assert.Contains(t, expense.Verdict.Warnings, "Potential duplicate receipt detected")
		assert.True(t, expense.Verdict.Valid)
	}
}

func TestProcessBatch_SequentialPreservesOrder(t *testing.T) {
	p, mockLog := newTestProcessor(t, processor.Options{}, nil)

	records := []models.Record{
		models.NewRecord("Staples", amt("45.99"), "2024-01-15", nil, "", 0.92),
		models.NewRecord("Delta Airlines", amt("450.75"), "2024-01-16", nil, "", 0.9),
		models.NewRecord("Uber", amt("23.10"), "2024-01-17", nil, "", 0.88),
	}

	expenses, err := p.ProcessBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, expenses, 3)

	for i := range records {
		assert.Equal(t, records[i].ID, expenses[i].Record.ID)
	}
	assert.Equal(t, models.CategoryOfficeSupplies, expenses[0].Category)
	assert.Equal(t, models.CategoryTravel, expenses[1].Category)
	assert.Equal(t, models.CategoryTravel, expenses[2].Category)
	assert.True(t, mockLog.HasEntry("INFO", "Batch processed"))
}

func TestProcessBatch_ConcurrentPreservesOrder(t *testing.T) {
	p, mockLog := newTestProcessor(t, processor.Options{ConcurrencyThreshold: 2, Workers: 4}, nil)

	records := make([]models.Record, 8)
	for i := range records {
		vendor := fmt.Sprintf("Vendor %d", i)
		records[i] = models.NewRecord(vendor, amt(fmt.Sprintf("%d.25", 20+i)), "2024-01-15", nil, "", 0.9)
	}

	expenses, err := p.ProcessBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, expenses, 8)

	for i := range records {
		assert.Equal(t, records[i].ID, expenses[i].Record.ID)
		assert.Equal(t, records[i].Vendor, expenses[i].Record.Vendor)
	}
	assert.True(t, mockLog.HasEntry("DEBUG", "Concurrent processing completed"))
}

func TestProcessBatch_OutlierWarning(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	amounts := []string{"9.75", "10.25", "11.10", "12.40", "13.05", "898.99"}
	records := make([]models.Record, len(amounts))
	for i, a := range amounts {
		records[i] = models.NewRecord(fmt.Sprintf("Vendor %d", i), amt(a), "2024-01-15", nil, "", 0.9)
	}

	expenses, err := p.ProcessBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, expenses, 6)

	for i, expense := range expenses {
		if i == 5 {
			assert.Contains(t, expense.Verdict.Warnings, "Amount significantly higher than batch average")
		} else {
			assert.NotContains(t, expense.Verdict.Warnings, "Amount significantly higher than batch average")
		}
	}
}

func TestProcessBatch_Canceled(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	expenses, err := p.ProcessBatch(ctx, []models.Record{
		models.NewRecord("Staples", amt("45.99"), "2024-01-15", nil, "", 0.92),
	})
	require.Error(t, err)
	assert.Nil(t, expenses)
}

func TestProcessBatch_Empty(t *testing.T) {
	p, _ := newTestProcessor(t, processor.Options{}, nil)

	expenses, err := p.ProcessBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, expenses)
}
