package entity

import "github.com/google/uuid"

// Court is a bookable field. Price is per hour. Courts are deactivated, not
// deleted, so booking history stays intact; hard deletion is a separate
// admin-only repository operation.
type Court struct {
	Base
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	IsActive    bool    `db:"is_active"`
}

type CourtImage struct {
	BaseSimple
	CourtID uuid.UUID `db:"court_id"`
	URL     string    `db:"url"`
}
