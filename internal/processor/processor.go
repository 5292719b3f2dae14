// Package processor orchestrates the expense pipeline: categorize, apply
// rules, validate, then materialize processed expenses with the derived
// bookkeeping fields. Per-record work is pure, so batches above a size
// threshold run on a worker pool; the batch consistency checker runs as a
// barrier after every per-record verdict exists.
package processor

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"fjacquet/receipt-processor/internal/batch"
	"fjacquet/receipt-processor/internal/categorizer"
	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"
	"fjacquet/receipt-processor/internal/rules"
	"fjacquet/receipt-processor/internal/validation"

	"github.com/shopspring/decimal"
)

// Defaults applied when the corresponding option is unset.
const (
	// DefaultConcurrencyThreshold is the batch size at which processing
	// switches from sequential to the worker pool.
	DefaultConcurrencyThreshold = 100
	// DefaultReviewConfidence is the extraction confidence below which an
	// expense is flagged for manual review.
	DefaultReviewConfidence = 0.7
)

var defaultReviewAmount = decimal.NewFromInt(1000)

const highAmountNote = "High amount expense - requires approval."

// Options tune the processor. Zero values fall back to the defaults above;
// Workers defaults to the CPU count and Now to time.Now.
type Options struct {
	ConcurrencyThreshold int
	ReviewAmount         decimal.Decimal
	ReviewConfidence     float64
	Workers              int
	Now                  func() time.Time
}

// Processor runs records through the full pipeline. It is safe for
// concurrent use once constructed.
type Processor struct {
	categorizer *categorizer.Categorizer
	engine      *rules.Engine
	validator   *validation.Validator
	checker     *batch.Checker

	threshold        int
	reviewAmount     decimal.Decimal
	reviewConfidence float64
	workers          int
	now              func() time.Time
	log              logging.Logger
}

// NewProcessor wires the pipeline stages together. A nil checker gets a
// default one; a nil logger falls back to a default logrus adapter.
func NewProcessor(c *categorizer.Categorizer, e *rules.Engine, v *validation.Validator, checker *batch.Checker, opts Options, log logging.Logger) *Processor {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	if checker == nil {
		checker = batch.NewChecker(log)
	}
	if opts.ConcurrencyThreshold <= 0 {
		opts.ConcurrencyThreshold = DefaultConcurrencyThreshold
	}
	if opts.ReviewAmount.IsZero() {
		opts.ReviewAmount = defaultReviewAmount
	}
	if opts.ReviewConfidence <= 0 {
		opts.ReviewConfidence = DefaultReviewConfidence
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Processor{
		categorizer:      c,
		engine:           e,
		validator:        v,
		checker:          checker,
		threshold:        opts.ConcurrencyThreshold,
		reviewAmount:     opts.ReviewAmount,
		reviewConfidence: opts.ReviewConfidence,
		workers:          opts.Workers,
		now:              opts.Now,
		log:              log,
	}
}

// Process runs a single record through the pipeline. Batch consistency
// checks do not apply to a lone record.
func (p *Processor) Process(ctx context.Context, record models.Record) (models.ProcessedExpense, error) {
	if err := ctx.Err(); err != nil {
		return models.ProcessedExpense{}, err
	}
	expense := p.process(record)
	p.finalize(&expense)
	return expense, nil
}

// ProcessBatch runs every record through the pipeline, then the batch
// consistency checker over the completed verdicts, then the final review
// derivation. Results keep the input order.
func (p *Processor) ProcessBatch(ctx context.Context, records []models.Record) ([]models.ProcessedExpense, error) {
	var expenses []models.ProcessedExpense
	var err error
	if len(records) < p.threshold {
		expenses, err = p.processSequential(ctx, records)
	} else {
		expenses, err = p.processConcurrent(ctx, records)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]batch.Entry, len(expenses))
	for i := range expenses {
		entries[i] = batch.Entry{Record: expenses[i].Record, Verdict: &expenses[i].Verdict}
	}
	p.checker.Check(entries)

	var invalid, review int
	for i := range expenses {
		p.finalize(&expenses[i])
		if !expenses[i].Verdict.Valid {
			invalid++
		}
		if expenses[i].RequiresReview {
			review++
		}
	}

	p.log.Info("Batch processed",
		logging.Field{Key: logging.FieldCount, Value: len(expenses)},
		logging.Field{Key: "invalid", Value: invalid},
		logging.Field{Key: "requires_review", Value: review},
	)
	return expenses, nil
}

// process is the pure per-record stage. Rules see the categorizer's
// assignment and may change the category; validation checks the category
// the expense ends up with.
func (p *Processor) process(record models.Record) models.ProcessedExpense {
	assignment := p.categorizer.Categorize(record)

	fields := p.engine.ApplyAll(rules.FieldsFromRecord(record, assignment.Category))

	verdict := p.validator.Validate(record, models.CategoryAssignment{
		Category:   fields.Category,
		Confidence: assignment.Confidence,
		Signal:     assignment.Signal,
	})

	expense := models.ProcessedExpense{
		Record:         record,
		Category:       fields.Category,
		Confidence:     assignment.Confidence,
		Signal:         assignment.Signal,
		Description:    fields.Description,
		AccountCode:    fields.AccountCode,
		Department:     fields.Department,
		Status:         models.StatusProcessed,
		RequiresReview: fields.RequiresReview,
		Notes:          fields.Notes,
		ProcessedAt:    p.now(),
		Verdict:        verdict,
	}

	p.log.Debug("Expense processed",
		logging.Field{Key: logging.FieldRecordID, Value: record.ID},
		logging.Field{Key: logging.FieldCategory, Value: expense.Category},
		logging.Field{Key: "valid", Value: verdict.Valid},
	)
	return expense
}

// finalize fills the derived fields that depend on the finished verdict.
// In a batch it must run after the consistency checker.
func (p *Processor) finalize(expense *models.ProcessedExpense) {
	if expense.Description == "" {
		expense.Description = models.DeriveDescription(expense.Record.Vendor, expense.Category)
	}
	if expense.Record.Confidence < p.reviewConfidence {
		expense.RequiresReview = true
	}
	if expense.Record.Amount != nil && expense.Record.Amount.GreaterThan(p.reviewAmount) {
		expense.RequiresReview = true
		expense.Notes = strings.TrimSpace(expense.Notes + " " + highAmountNote)
	}
	if !expense.Verdict.Valid {
		expense.RequiresReview = true
	}
}

func (p *Processor) processSequential(ctx context.Context, records []models.Record) ([]models.ProcessedExpense, error) {
	expenses := make([]models.ProcessedExpense, 0, len(records))
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		expenses = append(expenses, p.process(records[i]))
	}
	return expenses, nil
}

// indexedRecord and indexedExpense carry the original position through the
// worker pool so results can be reassembled in input order.
type indexedRecord struct {
	index  int
	record models.Record
}

type indexedExpense struct {
	index   int
	expense models.ProcessedExpense
}

func (p *Processor) processConcurrent(ctx context.Context, records []models.Record) ([]models.ProcessedExpense, error) {
	work := make(chan indexedRecord, p.workers)
	results := make(chan indexedExpense, len(records))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, work, results)
	}

	go func() {
		defer close(work)
		for i := range records {
			select {
			case work <- indexedRecord{index: i, record: records[i]}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	expenses := make([]models.ProcessedExpense, len(records))
	for result := range results {
		expenses[result.index] = result.expense
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.log.Debug("Concurrent processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: "workers", Value: p.workers},
	)
	return expenses, nil
}

func (p *Processor) worker(ctx context.Context, wg *sync.WaitGroup, work <-chan indexedRecord, results chan<- indexedExpense) {
	defer wg.Done()

	for {
		select {
		case item, ok := <-work:
			if !ok {
				return
			}
			expense := p.process(item.record)
			select {
			case results <- indexedExpense{index: item.index, expense: expense}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
