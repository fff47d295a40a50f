package domain

import "time"

// Category is read-only classification reference data. Critical categories
// feed the "critical pending" workload stat.
type Category struct {
	ID        string
	Name      string
	Critical  bool
	IsActive  bool
	CreatedAt time.Time
}

// SubCategory refines a category.
type SubCategory struct {
	ID         string
	CategoryID string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
}
