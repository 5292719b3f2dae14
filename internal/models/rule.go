package models

import "gopkg.in/yaml.v3"

// RuleCondition constrains a single field of an expense under evaluation.
// Every clause that is set must hold for the condition to match. In YAML a
// condition may be written either as a mapping of clauses or as a bare
// scalar, which is shorthand for an equality check.
type RuleCondition struct {
	Equals   interface{} `yaml:"equals,omitempty"`
	Min      *float64    `yaml:"min,omitempty"`
	Max      *float64    `yaml:"max,omitempty"`
	Contains string      `yaml:"contains,omitempty"`
}

// UnmarshalYAML accepts both the mapping form {equals, min, max, contains}
// and the scalar shorthand for equality.
func (c *RuleCondition) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		type plain RuleCondition
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*c = RuleCondition(p)
		return nil
	}
	var scalar interface{}
	if err := value.Decode(&scalar); err != nil {
		return err
	}
	c.Equals = scalar
	return nil
}

// RuleActions is the closed set of effects a rule can have on a matching
// expense. Actions run in field declaration order; a zero value means the
// action is not taken. AddNote appends rather than replaces.
type RuleActions struct {
	SetCategory     string `yaml:"set_category,omitempty"`
	SetAccountCode  string `yaml:"set_account_code,omitempty"`
	SetDepartment   string `yaml:"set_department,omitempty"`
	RequireApproval bool   `yaml:"require_approval,omitempty"`
	AddNote         string `yaml:"add_note,omitempty"`
}

// ExpenseRule is a declarative condition/action rule applied to expenses
// after categorization. Conditions are keyed by field name; all must match
// for the actions to fire.
type ExpenseRule struct {
	Name       string                   `yaml:"name"`
	Category   string                   `yaml:"category,omitempty"`
	Priority   int                      `yaml:"priority,omitempty"`
	Active     bool                     `yaml:"active"`
	Conditions map[string]RuleCondition `yaml:"conditions,omitempty"`
	Actions    RuleActions              `yaml:"actions,omitempty"`
}

// UnmarshalYAML decodes a rule with Active defaulting to true when the key
// is omitted.
func (r *ExpenseRule) UnmarshalYAML(value *yaml.Node) error {
	type plain ExpenseRule
	p := plain{Active: true}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = ExpenseRule(p)
	return nil
}

// RulesConfig represents the structure of the rules YAML file
type RulesConfig struct {
	Rules []ExpenseRule `yaml:"rules"`
}
