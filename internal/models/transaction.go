// Package models provides the data structures used throughout the application.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the statement date format (DD/MM/YYYY). All statement dates
// are parsed with this exact layout; anything else is treated as missing.
const DateLayout = "02/01/2006"

// Transaction represents one financial movement persisted in the store.
// Exactly one of Debit/Credit is set for real transactions; opening-balance
// rows carry neither. Uniqueness is enforced by ReferenceNumber when present,
// otherwise by the composite (TransactionDate, Description); rows without a
// date fall back to (Description, Balance).
type Transaction struct {
	ID              int64
	TransactionDate time.Time
	ValueDate       time.Time
	Description     string
	Debit           decimal.NullDecimal
	Credit          decimal.NullDecimal
	Balance         decimal.Decimal
	ReferenceNumber string
	CategoryID      *int64
	AccountID       *int64
	CreatedAt       time.Time
}

// Amount returns the transaction magnitude: the debit value when debited,
// otherwise the credit value. Zero for balance-only rows.
func (t *Transaction) Amount() decimal.Decimal {
	if t.Debit.Valid {
		return t.Debit.Decimal
	}
	if t.Credit.Valid {
		return t.Credit.Decimal
	}
	return decimal.Zero
}

// IsOpeningBalance reports whether the row is a balance carry-over rather
// than a real movement.
func (t *Transaction) IsOpeningBalance() bool {
	return !t.Debit.Valid && !t.Credit.Valid
}

// DedupKey returns the identity used to detect an already-present row.
// Rows without a date key on description and balance instead, so repeated
// opening-balance rows still collide.
func (t *Transaction) DedupKey() string {
	if t.ReferenceNumber != "" {
		return t.ReferenceNumber
	}
	if t.TransactionDate.IsZero() {
		return fmt.Sprintf("%s|%s", t.Description, t.Balance.String())
	}
	return fmt.Sprintf("%s|%s", FormatDate(t.TransactionDate), t.Description)
}

// Candidate is a provisionally parsed transaction row, produced by the
// statement parser before normalization and persistence. Dates that failed
// to parse are left as the zero time so downstream validation can flag them
// instead of aborting the batch.
type Candidate struct {
	TransDate       time.Time
	ValueDate       time.Time
	Description     string
	Debit           decimal.NullDecimal
	Credit          decimal.NullDecimal
	Balance         decimal.NullDecimal
	ReferenceNumber string
}

// Transaction converts the candidate into a persistable Transaction.
func (c Candidate) Transaction() Transaction {
	return Transaction{
		TransactionDate: c.TransDate,
		ValueDate:       c.ValueDate,
		Description:     c.Description,
		Debit:           c.Debit,
		Credit:          c.Credit,
		Balance:         c.Balance.Decimal,
		ReferenceNumber: c.ReferenceNumber,
	}
}

// ParseAmount converts a statement amount token like "1,234.56" or
// "-1,234.56" into a decimal. Thousand separators are dropped; parsing
// failures return zero.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.TrimSpace(amountStr)
	amount = strings.ReplaceAll(amount, ",", "")
	amount = strings.ReplaceAll(amount, "Rs", "")
	amount = strings.ReplaceAll(amount, " ", "")

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec
}

// ParseDate parses a statement date in DD/MM/YYYY format. An unparseable
// value yields the zero time, the null-date marker.
func ParseDate(dateStr string) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatDate renders a date in the statement format, or the empty string for
// the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
