package engine

import (
	"regexp"
	"strings"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"

	"github.com/shopspring/decimal"
)

// Engine evaluates categorization rules against transactions. Rules are
// taken in the order the store provides them (priority first); the first
// match wins, which makes categorization deterministic for a fixed rule
// set.
type Engine struct {
	rules      []models.CategorizationRule
	strategies []Strategy
	regexCache map[string]*regexp.Regexp
	logger     logging.Logger
}

// New builds an engine over an already-ordered rule set. Extra strategies
// are consulted, in order, only when no rule matches.
func New(rules []models.CategorizationRule, logger logging.Logger, strategies ...Strategy) *Engine {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Engine{
		rules:      rules,
		strategies: strategies,
		regexCache: make(map[string]*regexp.Regexp),
		logger:     logger,
	}
}

// Categorize returns the category for a transaction, or nil when nothing
// matches. Opening-balance rows are never categorized.
func (e *Engine) Categorize(txn models.Transaction) (*int64, error) {
	if txn.IsOpeningBalance() {
		return nil, nil
	}

	vendor := NormalizeVendor(txn.Description)

	for _, rule := range e.rules {
		matched, err := e.matches(rule, vendor, txn)
		if err != nil {
			return nil, err
		}
		if matched {
			e.logger.Debug("Rule matched",
				logging.Field{Key: logging.FieldRule, Value: rule.ID},
				logging.Field{Key: logging.FieldPattern, Value: rule.Pattern},
				logging.Field{Key: logging.FieldCategory, Value: rule.CategoryID})
			id := rule.CategoryID
			return &id, nil
		}
	}

	for _, strategy := range e.strategies {
		id, err := strategy.Categorize(txn)
		if err != nil {
			return nil, err
		}
		if id != nil {
			return id, nil
		}
	}
	return nil, nil
}

// BatchResult summarizes a batch categorization run.
type BatchResult struct {
	Total       int
	Categorized int
	PerCategory map[int64]int
}

// CategorizeBatch categorizes every transaction in the slice, mutating
// CategoryID in place for matches.
func (e *Engine) CategorizeBatch(txns []models.Transaction) (BatchResult, error) {
	result := BatchResult{
		Total:       len(txns),
		PerCategory: make(map[int64]int),
	}
	for i := range txns {
		id, err := e.Categorize(txns[i])
		if err != nil {
			return result, err
		}
		if id != nil {
			txns[i].CategoryID = id
			result.Categorized++
			result.PerCategory[*id]++
		}
	}
	return result, nil
}

func (e *Engine) matches(rule models.CategorizationRule, vendor string, txn models.Transaction) (bool, error) {
	switch rule.Kind() {
	case models.PatternRegex:
		re, err := e.compile(rule.Pattern)
		if err != nil {
			return false, err
		}
		for _, token := range VendorTokens(vendor) {
			if re.MatchString(token) {
				return true, nil
			}
		}
		return false, nil

	case models.PatternAmount:
		return matchAmount(rule.Pattern, txn.Amount())

	default:
		needle := strings.ToUpper(rule.Pattern)
		return strings.Contains(vendor, needle), nil
	}
}

// compile caches the compiled form of a rule regex. Matching is
// case-insensitive: rules are written against raw descriptions in any case,
// while the engine evaluates them on the uppercased vendor text.
func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := e.regexCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	e.regexCache[pattern] = re
	return re, nil
}

// matchAmount evaluates an "amount:<op>:<threshold>" predicate. Patterns
// are validated at write time; a malformed one that somehow reached the
// store simply never matches.
func matchAmount(pattern string, amount decimal.Decimal) (bool, error) {
	parts := strings.Split(pattern, ":")
	if len(parts) != 3 {
		return false, nil
	}
	threshold, err := decimal.NewFromString(parts[2])
	if err != nil {
		return false, nil
	}
	switch parts[1] {
	case models.AmountGreaterThan:
		return amount.GreaterThan(threshold), nil
	case models.AmountGreaterEqual:
		return amount.GreaterThanOrEqual(threshold), nil
	case models.AmountLessThan:
		return amount.LessThan(threshold), nil
	case models.AmountLessEqual:
		return amount.LessThanOrEqual(threshold), nil
	case models.AmountEqual:
		return amount.Equal(threshold), nil
	}
	return false, nil
}
