package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ProcessedExpense is a record enriched with its categorization outcome,
// rule effects, validation verdict, and the derived bookkeeping fields
// downstream exports consume.
type ProcessedExpense struct {
	Record         Record    `json:"record"`
	Category       string    `json:"category"`
	Confidence     float64   `json:"confidence"`
	Signal         Signal    `json:"signal"`
	Description    string    `json:"description,omitempty"`
	AccountCode    string    `json:"account_code,omitempty"`
	Department     string    `json:"department,omitempty"`
	Status         string    `json:"status"`
	RequiresReview bool      `json:"requires_review"`
	Notes          string    `json:"notes,omitempty"`
	ProcessedAt    time.Time `json:"processed_at"`
	Verdict        Verdict   `json:"verdict"`
}

// DeriveDescription builds the fallback expense description used when a
// record carries none of its own. Records without a vendor get no
// description.
func DeriveDescription(vendor, category string) string {
	if vendor == "" {
		return ""
	}
	return vendor + " - " + category
}

// NameTotal pairs a name with an aggregated amount, used for per-category
// and per-vendor rankings.
type NameTotal struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ExpenseSummary aggregates a batch of processed expenses for reporting.
type ExpenseSummary struct {
	Title         string                     `json:"title"`
	Period        string                     `json:"period,omitempty"`
	Total         decimal.Decimal            `json:"total"`
	Count         int                        `json:"count"`
	Average       decimal.Decimal            `json:"average"`
	Largest       decimal.Decimal            `json:"largest"`
	Smallest      decimal.Decimal            `json:"smallest"`
	ByCategory    map[string]decimal.Decimal `json:"by_category,omitempty"`
	ByVendor      map[string]decimal.Decimal `json:"by_vendor,omitempty"`
	ReviewCount   int                        `json:"review_count"`
	InvalidCount  int                        `json:"invalid_count"`
	ApprovedCount int                        `json:"approved_count"`
	PendingCount  int                        `json:"pending_count"`
	RejectedCount int                        `json:"rejected_count"`
}

// TopCategories returns the n largest categories by total amount,
// descending, with ties broken by name for stable output.
func (s ExpenseSummary) TopCategories(n int) []NameTotal {
	return topTotals(s.ByCategory, n)
}

// TopVendors returns the n largest vendors by total amount, descending,
// with ties broken by name for stable output.
func (s ExpenseSummary) TopVendors(n int) []NameTotal {
	return topTotals(s.ByVendor, n)
}

func topTotals(totals map[string]decimal.Decimal, n int) []NameTotal {
	ranked := make([]NameTotal, 0, len(totals))
	for name, amount := range totals {
		ranked = append(ranked, NameTotal{Name: name, Amount: amount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Amount.Equal(ranked[j].Amount) {
			return ranked[i].Amount.GreaterThan(ranked[j].Amount)
		}
		return ranked[i].Name < ranked[j].Name
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
