// Package rules evaluates declarative expense rules against processed
// records. A rule pairs per-field conditions with a closed set of actions
// (set category, set account code, set department, require approval, add
// note). The engine applies every matching active rule cumulatively in
// priority order, so broad low-priority rules can still contribute notes
// and approval flags after a specific high-priority rule has claimed the
// scalar fields.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"
	"fjacquet/receipt-processor/internal/store"

	"github.com/shopspring/decimal"
)

// Fields is the view of an expense a rule can read and write. Conditions
// are matched against it by field name; actions update it.
type Fields struct {
	Vendor         string
	Amount         *decimal.Decimal
	Date           string
	Category       string
	Description    string
	AccountCode    string
	Department     string
	RequiresReview bool
	Notes          string
}

// FieldsFromRecord seeds rule fields from a record and its assigned
// category. The bookkeeping fields start empty and are filled in by rules.
func FieldsFromRecord(record models.Record, category string) Fields {
	return Fields{
		Vendor:   record.Vendor,
		Amount:   record.Amount,
		Date:     record.Date,
		Category: category,
	}
}

// Applies reports whether every condition of the rule holds against the
// fields. A condition naming a field that is unknown or has no value makes
// the rule inapplicable.
func Applies(rule models.ExpenseRule, fields Fields) bool {
	for name, cond := range rule.Conditions {
		value, ok := lookupField(fields, name)
		if !ok {
			return false
		}
		if !conditionHolds(cond, value) {
			return false
		}
	}
	return true
}

// Apply executes the rule's actions against the fields in a fixed order:
// set category, set account code, set department, require approval, add
// note. Scalar setters overwrite, RequireApproval only ever raises the
// flag, and AddNote appends to whatever notes are already present.
func Apply(rule models.ExpenseRule, fields Fields) Fields {
	actions := rule.Actions
	if actions.SetCategory != "" {
		fields.Category = actions.SetCategory
	}
	if actions.SetAccountCode != "" {
		fields.AccountCode = actions.SetAccountCode
	}
	if actions.SetDepartment != "" {
		fields.Department = actions.SetDepartment
	}
	if actions.RequireApproval {
		fields.RequiresReview = true
	}
	if actions.AddNote != "" {
		fields.Notes = appendNote(fields.Notes, actions.AddNote)
	}
	return fields
}

// Engine applies a fixed, ordered rule set to expense fields.
type Engine struct {
	rules []models.ExpenseRule
	log   logging.Logger
}

// NewEngine loads the rule set from the store and orders it once: highest
// priority first, ties broken by rule name so evaluation order never
// depends on file order. A nil logger falls back to a default logrus
// adapter.
func NewEngine(s store.Store, log logging.Logger) (*Engine, error) {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}

	loaded, err := s.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("loading expense rules: %w", err)
	}

	rules := make([]models.ExpenseRule, len(loaded))
	copy(rules, loaded)
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].Name < rules[j].Name
	})

	log.Debug("Expense rules loaded",
		logging.Field{Key: logging.FieldCount, Value: len(rules)},
	)
	return &Engine{rules: rules, log: log}, nil
}

// Rules returns the engine's rule set in evaluation order.
func (e *Engine) Rules() []models.ExpenseRule {
	out := make([]models.ExpenseRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// ApplyAll runs every active rule that matches, in evaluation order, and
// returns the updated fields. Each rule is matched against the fields as
// previous rules left them. The first rule to set a scalar field keeps it
// against later rules, RequiresReview stays raised once any rule raises
// it, and notes accumulate across all matching rules.
func (e *Engine) ApplyAll(fields Fields) Fields {
	var categorySet, accountCodeSet, departmentSet bool

	for _, rule := range e.rules {
		if !rule.Active {
			continue
		}
		if !Applies(rule, fields) {
			continue
		}

		actions := rule.Actions
		if actions.SetCategory != "" && !categorySet {
			fields.Category = actions.SetCategory
			categorySet = true
		}
		if actions.SetAccountCode != "" && !accountCodeSet {
			fields.AccountCode = actions.SetAccountCode
			accountCodeSet = true
		}
		if actions.SetDepartment != "" && !departmentSet {
			fields.Department = actions.SetDepartment
			departmentSet = true
		}
		if actions.RequireApproval {
			fields.RequiresReview = true
		}
		if actions.AddNote != "" {
			fields.Notes = appendNote(fields.Notes, actions.AddNote)
		}

		e.log.Debug("Expense rule applied",
			logging.Field{Key: logging.FieldRule, Value: rule.Name},
			logging.Field{Key: logging.FieldVendor, Value: fields.Vendor},
			logging.Field{Key: logging.FieldCategory, Value: fields.Category},
		)
	}
	return fields
}

func lookupField(fields Fields, name string) (interface{}, bool) {
	switch name {
	case "vendor":
		return fields.Vendor, true
	case "amount":
		if fields.Amount == nil {
			return nil, false
		}
		return *fields.Amount, true
	case "date":
		return fields.Date, true
	case "category":
		return fields.Category, true
	case "description":
		return fields.Description, true
	case "account_code":
		return fields.AccountCode, true
	case "department":
		return fields.Department, true
	case "requires_review":
		return fields.RequiresReview, true
	case "notes":
		return fields.Notes, true
	}
	return nil, false
}

func conditionHolds(cond models.RuleCondition, value interface{}) bool {
	if cond.Min != nil {
		amount, ok := value.(decimal.Decimal)
		if !ok || amount.LessThan(decimal.NewFromFloat(*cond.Min)) {
			return false
		}
	}
	if cond.Max != nil {
		amount, ok := value.(decimal.Decimal)
		if !ok || amount.GreaterThan(decimal.NewFromFloat(*cond.Max)) {
			return false
		}
	}
	if cond.Contains != "" {
		if !strings.Contains(strings.ToLower(stringify(value)), strings.ToLower(cond.Contains)) {
			return false
		}
	}
	if cond.Equals != nil {
		if !equalsMatch(value, cond.Equals) {
			return false
		}
	}
	return true
}

func equalsMatch(value, want interface{}) bool {
	switch v := value.(type) {
	case string:
		s, ok := want.(string)
		return ok && v == s
	case decimal.Decimal:
		return decimalEqual(v, want)
	case bool:
		b, ok := want.(bool)
		return ok && v == b
	}
	return false
}

func decimalEqual(v decimal.Decimal, want interface{}) bool {
	switch w := want.(type) {
	case int:
		return v.Equal(decimal.NewFromInt(int64(w)))
	case int64:
		return v.Equal(decimal.NewFromInt(w))
	case float64:
		return v.Equal(decimal.NewFromFloat(w))
	case string:
		d, err := decimal.NewFromString(w)
		return err == nil && v.Equal(d)
	}
	return false
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case decimal.Decimal:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func appendNote(notes, note string) string {
	return strings.TrimSpace(notes + " " + note)
}
