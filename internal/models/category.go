package models

import "time"

// Category is a named spending bucket. Categories form a tree through
// ParentID; the seeded taxonomy is two levels deep but the store does not
// limit depth.
type Category struct {
	ID        int64
	Name      string
	ParentID  *int64
	CreatedAt time.Time
}

// Account is a named source of transactions, e.g. one bank account.
type Account struct {
	ID        int64
	Name      string
	Type      string
	CreatedAt time.Time
}

// CategoryConfig is one entry of the seeded taxonomy YAML file.
type CategoryConfig struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories"`
}

// TaxonomyConfig is the structure of the category taxonomy YAML file.
type TaxonomyConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// DefaultTaxonomy is the category set seeded on first run when no taxonomy
// file is configured.
var DefaultTaxonomy = []CategoryConfig{
	{Name: "Income"},
	{Name: "Groceries"},
	{Name: "Restaurants"},
	{Name: "Coffee Shops"},
	{Name: "Shopping"},
	{Name: "Transportation & Fuel"},
	{Name: "Sport"},
	{Name: "Utilities"},
	{Name: "Entertainment"},
	{Name: "Healthcare"},
	{Name: "Insurance"},
	{Name: "Bank Charges"},
	{Name: "Taxes"},
	{Name: "Travel"},
	{Name: "Education"},
	{Name: "Home"},
	{Name: "Subscriptions"},
	{Name: "Internal Transfert"},
	{Name: "Other"},
}
