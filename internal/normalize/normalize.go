// Package normalize cleans candidate transactions and reports on data
// quality before anything is persisted.
package normalize

import (
	"strings"
	"time"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"

	"github.com/google/uuid"
)

// RequiredColumns are the fields every candidate must carry. Debit and
// credit are excluded on purpose: exactly one of them is empty on every
// well-formed row.
var RequiredColumns = []string{
	"trans_date", "value_date", "transaction_details", "balance",
}

// ValidationReport summarizes data-quality findings for one batch of
// candidates. It never blocks processing; it exists to be looked at.
type ValidationReport struct {
	ID            string         `json:"id"`
	GeneratedAt   time.Time      `json:"generated_at"`
	RowCount      int            `json:"row_count"`
	MissingValues map[string]int `json:"missing_values"`
	InvalidRows   []InvalidRow   `json:"invalid_rows"`
}

// InvalidRow records a contradiction in a single candidate row.
type InvalidRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Normalizer cleans and validates candidate transactions.
type Normalizer struct {
	logger logging.Logger
}

func NewNormalizer(logger logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Normalizer{logger: logger}
}

// Clean trims and upper-cases descriptions and drops exact duplicate rows
// within the batch. Cross-batch dedup belongs to the store.
func (n *Normalizer) Clean(candidates []models.Candidate) []models.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Candidate, 0, len(candidates))
	dropped := 0

	for _, c := range candidates {
		c.Description = strings.ToUpper(strings.TrimSpace(c.Description))

		key := rowKey(c)
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	if dropped > 0 {
		n.logger.Debug("Dropped duplicate rows within batch",
			logging.Field{Key: logging.FieldCount, Value: dropped})
	}
	return out
}

// Validate builds a data-quality report over a cleaned batch. Opening
// balance rows are exempt from missing-value counting because they have no
// dates by construction.
func (n *Normalizer) Validate(candidates []models.Candidate) ValidationReport {
	report := ValidationReport{
		ID:            uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		RowCount:      len(candidates),
		MissingValues: make(map[string]int, len(RequiredColumns)),
	}
	for _, col := range RequiredColumns {
		report.MissingValues[col] = 0
	}

	for i, c := range candidates {
		if c.Debit.Valid && c.Credit.Valid {
			report.InvalidRows = append(report.InvalidRows, InvalidRow{
				Index:  i,
				Reason: "both debit and credit set",
			})
			n.logger.Debug("Contradictory row",
				logging.Field{Key: "row", Value: i},
				logging.Field{Key: logging.FieldReason, Value: "both debit and credit set"})
		}

		if strings.Contains(c.Description, "OPENING BALANCE") {
			continue
		}
		if c.TransDate.IsZero() {
			report.MissingValues["trans_date"]++
		}
		if c.ValueDate.IsZero() {
			report.MissingValues["value_date"]++
		}
		if c.Description == "" {
			report.MissingValues["transaction_details"]++
		}
		if !c.Balance.Valid {
			report.MissingValues["balance"]++
		}
	}

	if len(report.InvalidRows) > 0 {
		n.logger.Warn("Validation found contradictory rows",
			logging.Field{Key: logging.FieldCount, Value: len(report.InvalidRows)})
	}
	return report
}

// ToTransactions converts cleaned candidates into transactions ready for
// persistence.
func (n *Normalizer) ToTransactions(candidates []models.Candidate) []models.Transaction {
	out := make([]models.Transaction, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Transaction())
	}
	return out
}

func rowKey(c models.Candidate) string {
	parts := []string{
		models.FormatDate(c.TransDate),
		models.FormatDate(c.ValueDate),
		c.Description,
		c.ReferenceNumber,
	}
	if c.Debit.Valid {
		parts = append(parts, "d:"+c.Debit.Decimal.String())
	}
	if c.Credit.Valid {
		parts = append(parts, "c:"+c.Credit.Decimal.String())
	}
	if c.Balance.Valid {
		parts = append(parts, "b:"+c.Balance.Decimal.String())
	}
	return strings.Join(parts, "|")
}
