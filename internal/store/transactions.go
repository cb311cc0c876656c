package store

import (
	"database/sql"
	"time"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
	"dkhurana/bankledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

// InsertResult reports the outcome of a batch insert.
type InsertResult struct {
	Inserted   int
	Duplicates int
}

// InsertTransactions persists a batch in a single database transaction.
// Rows already present (by reference number or by date and description) are
// skipped silently, so reprocessing the same statement is idempotent.
func (s *Store) InsertTransactions(txns []models.Transaction, accountID *int64) (InsertResult, error) {
	var result InsertResult
	if len(txns) == 0 {
		return result, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return result, &parsererror.StoreError{Op: "insert transactions", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO transactions
			(transaction_date, value_date, description, debit, credit,
			 balance, reference_number, category_id, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return result, &parsererror.StoreError{Op: "insert transactions", Err: err}
	}
	defer stmt.Close()

	for _, t := range txns {
		res, err := stmt.Exec(
			nullDate(t.TransactionDate),
			nullDate(t.ValueDate),
			t.Description,
			nullDecimal(t.Debit),
			nullDecimal(t.Credit),
			t.Balance.String(),
			nullString(t.ReferenceNumber),
			t.CategoryID,
			accountID,
		)
		if err != nil {
			return InsertResult{}, &parsererror.StoreError{Op: "insert transactions", Err: err}
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return InsertResult{}, &parsererror.StoreError{Op: "insert transactions", Err: err}
		}
		if affected == 0 {
			result.Duplicates++
		} else {
			result.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return InsertResult{}, &parsererror.StoreError{Op: "insert transactions", Err: err}
	}

	s.logger.Info("Persisted transactions",
		logging.Field{Key: logging.FieldInserted, Value: result.Inserted},
		logging.Field{Key: logging.FieldDuplicate, Value: result.Duplicates})
	return result, nil
}

// ListUncategorized returns every transaction without a category, oldest
// first.
func (s *Store) ListUncategorized() ([]models.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT id, transaction_date, value_date, description, debit, credit,
		       balance, reference_number, category_id, account_id, created_at
		FROM transactions
		WHERE category_id IS NULL
		ORDER BY transaction_date ASC, id ASC`)
	if err != nil {
		return nil, &parsererror.StoreError{Op: "list uncategorized", Err: err}
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListTransactions returns every transaction, oldest first.
func (s *Store) ListTransactions() ([]models.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT id, transaction_date, value_date, description, debit, credit,
		       balance, reference_number, category_id, account_id, created_at
		FROM transactions
		ORDER BY transaction_date ASC, id ASC`)
	if err != nil {
		return nil, &parsererror.StoreError{Op: "list transactions", Err: err}
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// SetTransactionCategory assigns a category to one transaction.
func (s *Store) SetTransactionCategory(txnID, categoryID int64) error {
	_, err := s.db.Exec(
		`UPDATE transactions SET category_id = ? WHERE id = ?`,
		categoryID, txnID)
	if err != nil {
		return &parsererror.StoreError{Op: "set transaction category", Err: err}
	}
	return nil
}

// CategoryAssignment pairs a transaction with the category the engine chose
// for it.
type CategoryAssignment struct {
	TransactionID int64
	CategoryID    int64
}

// ApplyCategoryAssignments persists a categorization run in one database
// transaction.
func (s *Store) ApplyCategoryAssignments(assignments []CategoryAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &parsererror.StoreError{Op: "apply category assignments", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE transactions SET category_id = ? WHERE id = ?`)
	if err != nil {
		return &parsererror.StoreError{Op: "apply category assignments", Err: err}
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(a.CategoryID, a.TransactionID); err != nil {
			return &parsererror.StoreError{Op: "apply category assignments", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &parsererror.StoreError{Op: "apply category assignments", Err: err}
	}
	return nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var txns []models.Transaction
	for rows.Next() {
		var (
			t         models.Transaction
			transDate sql.NullString
			valueDate sql.NullString
			debit     sql.NullString
			credit    sql.NullString
			balance   string
			reference sql.NullString
		)
		if err := rows.Scan(&t.ID, &transDate, &valueDate, &t.Description,
			&debit, &credit, &balance, &reference,
			&t.CategoryID, &t.AccountID, &t.CreatedAt); err != nil {
			return nil, &parsererror.StoreError{Op: "scan transaction", Err: err}
		}
		t.TransactionDate = scanDate(transDate)
		t.ValueDate = scanDate(valueDate)
		t.Debit = scanDecimal(debit)
		t.Credit = scanDecimal(credit)
		t.Balance = models.ParseAmount(balance)
		t.ReferenceNumber = reference.String
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.StoreError{Op: "scan transaction", Err: err}
	}
	return txns, nil
}

// Dates are stored in ISO form so the composite dedup index and ORDER BY
// compare chronologically.
const dbDateLayout = "2006-01-02"

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dbDateLayout)
}

func scanDate(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(dbDateLayout, v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func scanDecimal(v sql.NullString) decimal.NullDecimal {
	if !v.Valid || v.String == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(models.ParseAmount(v.String))
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
