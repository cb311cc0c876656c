package store

import (
	"fmt"
	"regexp"
	"strings"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
	"dkhurana/bankledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

// AddRule validates and inserts a categorization rule, returning its ID.
func (s *Store) AddRule(def models.RuleDefinition) (int64, error) {
	if err := ValidateRulePattern(def.Pattern, def.IsRegex); err != nil {
		return 0, err
	}

	res, err := s.db.Exec(`
		INSERT INTO categorization_rules (pattern, category_id, priority, is_regex)
		VALUES (?, ?, ?, ?)`,
		def.Pattern, def.CategoryID, def.Priority, boolToInt(def.IsRegex))
	if err != nil {
		return 0, &parsererror.StoreError{Op: "add rule", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &parsererror.StoreError{Op: "add rule", Err: err}
	}

	s.logger.Info("Added categorization rule",
		logging.Field{Key: logging.FieldRule, Value: id},
		logging.Field{Key: logging.FieldPattern, Value: def.Pattern})
	return id, nil
}

// ListRules returns all rules in evaluation order: priority descending,
// then creation time, then ID. The ordering is the engine's contract; the
// first matching rule in this order wins.
func (s *Store) ListRules() ([]models.CategorizationRule, error) {
	rows, err := s.db.Query(`
		SELECT id, pattern, category_id, priority, is_regex, created_at
		FROM categorization_rules
		ORDER BY priority DESC, created_at ASC, id ASC`)
	if err != nil {
		return nil, &parsererror.StoreError{Op: "list rules", Err: err}
	}
	defer rows.Close()

	var rules []models.CategorizationRule
	for rows.Next() {
		var (
			r       models.CategorizationRule
			isRegex int
		)
		if err := rows.Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.Priority,
			&isRegex, &r.CreatedAt); err != nil {
			return nil, &parsererror.StoreError{Op: "scan rule", Err: err}
		}
		r.IsRegex = isRegex != 0
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.StoreError{Op: "scan rule", Err: err}
	}
	return rules, nil
}

// RuleUpdate carries the fields of a partial rule update. Nil fields are
// left unchanged; an update with no fields set is a no-op.
type RuleUpdate struct {
	Pattern    *string
	CategoryID *int64
	Priority   *int
	IsRegex    *bool
}

// UpdateRule applies a partial update to an existing rule. A changed
// pattern or regex flag is re-validated before the write.
func (s *Store) UpdateRule(id int64, update RuleUpdate) error {
	if update.Pattern == nil && update.CategoryID == nil &&
		update.Priority == nil && update.IsRegex == nil {
		return nil
	}

	existing, err := s.getRule(id)
	if err != nil {
		return err
	}

	pattern := existing.Pattern
	if update.Pattern != nil {
		pattern = *update.Pattern
	}
	isRegex := existing.IsRegex
	if update.IsRegex != nil {
		isRegex = *update.IsRegex
	}
	if err := ValidateRulePattern(pattern, isRegex); err != nil {
		return err
	}

	categoryID := existing.CategoryID
	if update.CategoryID != nil {
		categoryID = *update.CategoryID
	}
	priority := existing.Priority
	if update.Priority != nil {
		priority = *update.Priority
	}

	_, err = s.db.Exec(`
		UPDATE categorization_rules
		SET pattern = ?, category_id = ?, priority = ?, is_regex = ?
		WHERE id = ?`,
		pattern, categoryID, priority, boolToInt(isRegex), id)
	if err != nil {
		return &parsererror.StoreError{Op: "update rule", Err: err}
	}
	return nil
}

// DeleteRule removes a rule by ID.
func (s *Store) DeleteRule(id int64) error {
	res, err := s.db.Exec(`DELETE FROM categorization_rules WHERE id = ?`, id)
	if err != nil {
		return &parsererror.StoreError{Op: "delete rule", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &parsererror.StoreError{Op: "delete rule", Err: err}
	}
	if affected == 0 {
		return &parsererror.StoreError{Op: "delete rule",
			Err: fmt.Errorf("rule %d not found", id)}
	}
	return nil
}

// ImportRules inserts a batch of rule definitions in one database
// transaction. Any invalid definition aborts the whole import; the store is
// left exactly as it was. With clearExisting the current rule set is
// replaced rather than extended.
func (s *Store) ImportRules(defs []models.RuleDefinition, clearExisting bool) (int, error) {
	for _, def := range defs {
		if err := ValidateRulePattern(def.Pattern, def.IsRegex); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, &parsererror.StoreError{Op: "import rules", Err: err}
	}
	defer tx.Rollback()

	if clearExisting {
		if _, err := tx.Exec(`DELETE FROM categorization_rules`); err != nil {
			return 0, &parsererror.StoreError{Op: "import rules", Err: err}
		}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO categorization_rules (pattern, category_id, priority, is_regex)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, &parsererror.StoreError{Op: "import rules", Err: err}
	}
	defer stmt.Close()

	for _, def := range defs {
		if _, err := stmt.Exec(def.Pattern, def.CategoryID, def.Priority,
			boolToInt(def.IsRegex)); err != nil {
			return 0, &parsererror.StoreError{Op: "import rules", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &parsererror.StoreError{Op: "import rules", Err: err}
	}

	s.logger.Info("Imported categorization rules",
		logging.Field{Key: logging.FieldCount, Value: len(defs)})
	return len(defs), nil
}

// ExportRules returns every rule as a definition, in evaluation order, so
// an export re-imported into an empty store reproduces the same behavior.
func (s *Store) ExportRules() ([]models.RuleDefinition, error) {
	rules, err := s.ListRules()
	if err != nil {
		return nil, err
	}
	defs := make([]models.RuleDefinition, 0, len(rules))
	for _, r := range rules {
		defs = append(defs, r.Definition())
	}
	return defs, nil
}

// ValidateRulePattern rejects patterns that could not be evaluated later:
// empty patterns, regexes that do not compile, and malformed amount
// predicates.
func ValidateRulePattern(pattern string, isRegex bool) error {
	if strings.TrimSpace(pattern) == "" {
		return &parsererror.ValidationError{
			Field: "pattern", Value: pattern, Reason: "pattern must not be empty",
		}
	}
	if isRegex {
		if _, err := regexp.Compile(pattern); err != nil {
			return &parsererror.ValidationError{
				Field: "pattern", Value: pattern,
				Reason: fmt.Sprintf("invalid regex: %v", err),
			}
		}
		return nil
	}
	if strings.HasPrefix(pattern, models.AmountPatternPrefix) {
		return validateAmountPattern(pattern)
	}
	return nil
}

func validateAmountPattern(pattern string) error {
	parts := strings.Split(pattern, ":")
	if len(parts) != 3 {
		return &parsererror.ValidationError{
			Field: "pattern", Value: pattern,
			Reason: "amount pattern must be amount:<op>:<threshold>",
		}
	}
	switch parts[1] {
	case models.AmountGreaterThan, models.AmountGreaterEqual,
		models.AmountLessThan, models.AmountLessEqual, models.AmountEqual:
	default:
		return &parsererror.ValidationError{
			Field: "pattern", Value: pattern,
			Reason: fmt.Sprintf("unknown amount operator %q", parts[1]),
		}
	}
	if _, err := decimal.NewFromString(parts[2]); err != nil {
		return &parsererror.ValidationError{
			Field: "pattern", Value: pattern,
			Reason: fmt.Sprintf("invalid amount threshold %q", parts[2]),
		}
	}
	return nil
}

func (s *Store) getRule(id int64) (models.CategorizationRule, error) {
	var (
		r       models.CategorizationRule
		isRegex int
	)
	err := s.db.QueryRow(`
		SELECT id, pattern, category_id, priority, is_regex, created_at
		FROM categorization_rules WHERE id = ?`, id).
		Scan(&r.ID, &r.Pattern, &r.CategoryID, &r.Priority, &isRegex, &r.CreatedAt)
	if err != nil {
		return r, &parsererror.StoreError{Op: "get rule", Err: err}
	}
	r.IsRegex = isRegex != 0
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
