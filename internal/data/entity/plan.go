package entity

// Plan is a lookup entity for subscription offerings. Read-only in this
// service.
type Plan struct {
	Base
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	IsActive    bool    `db:"is_active"`
}
