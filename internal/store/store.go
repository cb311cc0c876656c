// Package store persists transactions, categories, accounts, and
// categorization rules in a local SQLite database.
package store

import (
	"database/sql"
	"os"
	"path/filepath"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/parsererror"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	type       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	parent_id  INTEGER REFERENCES categories(id),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS transactions (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	transaction_date TEXT,
	value_date       TEXT,
	description      TEXT NOT NULL,
	debit            TEXT,
	credit           TEXT,
	balance          TEXT NOT NULL,
	reference_number TEXT,
	category_id      INTEGER REFERENCES categories(id),
	account_id       INTEGER REFERENCES accounts(id),
	created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_reference
	ON transactions(reference_number)
	WHERE reference_number IS NOT NULL;

CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_date_description
	ON transactions(transaction_date, description)
	WHERE reference_number IS NULL;

CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_dateless
	ON transactions(description, balance)
	WHERE transaction_date IS NULL AND reference_number IS NULL;

CREATE INDEX IF NOT EXISTS idx_transactions_category
	ON transactions(category_id);

CREATE INDEX IF NOT EXISTS idx_transactions_account
	ON transactions(account_id);

CREATE TABLE IF NOT EXISTS categorization_rules (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	pattern     TEXT NOT NULL,
	category_id INTEGER NOT NULL REFERENCES categories(id),
	priority    INTEGER NOT NULL DEFAULT 0,
	is_regex    INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rules_priority
	ON categorization_rules(priority DESC);
`

// Store wraps the SQLite database. All methods are safe for use from a
// single goroutine; the CLI never needs more.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (creating if necessary) the database at path and applies the
// schema. The parent directory is created when missing.
func Open(path string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &parsererror.StoreError{Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &parsererror.StoreError{Op: "open", Err: err}
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, &parsererror.StoreError{Op: "open", Err: err}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &parsererror.StoreError{Op: "migrate", Err: err}
	}

	logger.Debug("Opened database", logging.Field{Key: logging.FieldFile, Value: path})
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
