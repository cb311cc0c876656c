package models

import "time"

// PatternKind identifies how a rule's pattern is evaluated.
type PatternKind string

const (
	// PatternSubstring matches by case-insensitive containment.
	PatternSubstring PatternKind = "substring"
	// PatternRegex matches by regular-expression search.
	PatternRegex PatternKind = "regex"
	// PatternAmount matches by a numeric predicate on the transaction amount.
	PatternAmount PatternKind = "amount"
)

// AmountPatternPrefix marks a non-regex pattern as an amount predicate.
// The full encoding is "amount:<op>:<threshold>", e.g. "amount:gt:1000".
const AmountPatternPrefix = "amount:"

// Amount predicate operators.
const (
	AmountGreaterThan  = "gt"
	AmountGreaterEqual = "ge"
	AmountLessThan     = "lt"
	AmountLessEqual    = "le"
	AmountEqual        = "eq"
)

// CategorizationRule maps a pattern to a category. Rules are evaluated in
// priority order (higher first), with CreatedAt then ID as stable tie-breaks.
type CategorizationRule struct {
	ID         int64
	Pattern    string
	CategoryID int64
	Priority   int
	IsRegex    bool
	CreatedAt  time.Time
}

// Kind returns the pattern kind of the rule.
func (r CategorizationRule) Kind() PatternKind {
	if r.IsRegex {
		return PatternRegex
	}
	if len(r.Pattern) > len(AmountPatternPrefix) && r.Pattern[:len(AmountPatternPrefix)] == AmountPatternPrefix {
		return PatternAmount
	}
	return PatternSubstring
}

// RuleDefinition is the external import/export representation of a rule.
// Priority defaults to 0 and IsRegex to false when omitted.
type RuleDefinition struct {
	Pattern    string `yaml:"pattern" json:"pattern"`
	CategoryID int64  `yaml:"category_id" json:"category_id"`
	Priority   int    `yaml:"priority" json:"priority"`
	IsRegex    bool   `yaml:"is_regex" json:"is_regex"`
}

// Definition returns the external representation of the rule.
func (r CategorizationRule) Definition() RuleDefinition {
	return RuleDefinition{
		Pattern:    r.Pattern,
		CategoryID: r.CategoryID,
		Priority:   r.Priority,
		IsRegex:    r.IsRegex,
	}
}
