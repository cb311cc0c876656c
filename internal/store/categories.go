package store

import (
	"database/sql"
	"errors"

	"dkhurana/bankledger/internal/logging"
	"dkhurana/bankledger/internal/models"
	"dkhurana/bankledger/internal/parsererror"
)

// EnsureCategory returns the ID of the named category, creating it (with
// the optional parent) when absent.
func (s *Store) EnsureCategory(name string, parentID *int64) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, &parsererror.StoreError{Op: "ensure category", Err: err}
	}

	res, err := s.db.Exec(`INSERT INTO categories (name, parent_id) VALUES (?, ?)`,
		name, parentID)
	if err != nil {
		return 0, &parsererror.StoreError{Op: "ensure category", Err: err}
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, &parsererror.StoreError{Op: "ensure category", Err: err}
	}
	return id, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT id, name, parent_id, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, &parsererror.StoreError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, &parsererror.StoreError{Op: "scan category", Err: err}
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.StoreError{Op: "scan category", Err: err}
	}
	return categories, nil
}

// CategoryName resolves a category ID to its name.
func (s *Store) CategoryName(id int64) (string, error) {
	var name string
	err := s.db.QueryRow(`SELECT name FROM categories WHERE id = ?`, id).Scan(&name)
	if err != nil {
		return "", &parsererror.StoreError{Op: "category name", Err: err}
	}
	return name, nil
}

// SeedTaxonomy inserts the given category taxonomy, skipping categories
// that already exist. Reseeding is idempotent.
func (s *Store) SeedTaxonomy(taxonomy []models.CategoryConfig) error {
	created := 0
	for _, cfg := range taxonomy {
		parentID, err := s.EnsureCategory(cfg.Name, nil)
		if err != nil {
			return err
		}
		created++
		for _, sub := range cfg.Subcategories {
			if _, err := s.EnsureCategory(sub, &parentID); err != nil {
				return err
			}
			created++
		}
	}
	s.logger.Debug("Seeded category taxonomy",
		logging.Field{Key: logging.FieldCount, Value: created})
	return nil
}

// EnsureAccount returns the ID of the named account, creating it when
// absent.
func (s *Store) EnsureAccount(name, accountType string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM accounts WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, &parsererror.StoreError{Op: "ensure account", Err: err}
	}

	res, err := s.db.Exec(`INSERT INTO accounts (name, type) VALUES (?, ?)`,
		name, accountType)
	if err != nil {
		return 0, &parsererror.StoreError{Op: "ensure account", Err: err}
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, &parsererror.StoreError{Op: "ensure account", Err: err}
	}
	return id, nil
}
