// Package batch implements consistency checks that only make sense across
// a whole set of records validated together: duplicate detection and
// amount-outlier flagging. The checker appends warnings to verdicts already
// produced by per-record validation and never touches their errors or
// confidence. Cross-record evidence is a reason for a second look, not
// proof that any single record is wrong.
package batch

import (
	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"

	"github.com/shopspring/decimal"
)

// minKnownAmounts is the number of records with a usable amount below which
// outlier detection is skipped. Smaller batches give a mean too noisy to
// flag against.
const minKnownAmounts = 5

var outlierFactor = decimal.NewFromInt(5)

// Entry pairs a record with the verdict its per-record validation produced.
// While a check runs, the checker is the sole writer of every verdict in
// the batch.
type Entry struct {
	Record  models.Record
	Verdict *models.Verdict
}

// Checker flags suspected duplicates and amount outliers across a batch.
type Checker struct {
	log logging.Logger
}

// NewChecker creates a batch Checker. A nil logger falls back to a default
// logrus adapter.
func NewChecker(log logging.Logger) *Checker {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &Checker{log: log}
}

// Check runs both batch passes over the entries, appending warnings to
// their verdicts. It must run only after per-record validation for the
// whole batch has completed.
func (c *Checker) Check(entries []Entry) {
	c.log.Debug("Running batch consistency checks",
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
	)
	c.flagDuplicates(entries)
	c.flagOutliers(entries)
}

// flagDuplicates compares every pair of records. Vendor, amount, and date
// all equal marks both members of the pair; a record matching several
// others collects one warning per match.
func (c *Checker) flagDuplicates(entries []Entry) {
	for i := 1; i < len(entries); i++ {
		for j := 0; j < i; j++ {
			if !sameReceipt(entries[i].Record, entries[j].Record) {
				continue
			}
			entries[i].Verdict.AddWarning("Potential duplicate receipt detected")
			entries[j].Verdict.AddWarning("Potential duplicate receipt detected")
			c.log.Warn("Potential duplicate receipts in batch",
				logging.Field{Key: logging.FieldRecordID, Value: entries[i].Record.ID},
				logging.Field{Key: "duplicate_of", Value: entries[j].Record.ID},
				logging.Field{Key: logging.FieldVendor, Value: entries[i].Record.Vendor},
			)
		}
	}
}

func sameReceipt(a, b models.Record) bool {
	if a.Vendor != b.Vendor || a.Date != b.Date {
		return false
	}
	if a.Amount == nil || b.Amount == nil {
		return a.Amount == nil && b.Amount == nil
	}
	return a.Amount.Equal(*b.Amount)
}

// flagOutliers warns on any amount above five times the batch mean. The
// mean is taken over records with a known amount only.
func (c *Checker) flagOutliers(entries []Entry) {
	known := make([]decimal.Decimal, 0, len(entries))
	for _, e := range entries {
		if e.Record.KnownAmount() {
			known = append(known, *e.Record.Amount)
		}
	}
	if len(known) < minKnownAmounts {
		return
	}

	sum := decimal.Zero
	for _, amount := range known {
		sum = sum.Add(amount)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(known))))
	threshold := mean.Mul(outlierFactor)

	for _, e := range entries {
		if !e.Record.KnownAmount() {
			continue
		}
		if e.Record.Amount.GreaterThan(threshold) {
			e.Verdict.AddWarning("Amount significantly higher than batch average")
			c.log.Warn("Amount is a batch outlier",
				logging.Field{Key: logging.FieldRecordID, Value: e.Record.ID},
				logging.Field{Key: logging.FieldAmount, Value: e.Record.Amount.String()},
				logging.Field{Key: "batch_mean", Value: mean.String()},
			)
		}
	}
}
