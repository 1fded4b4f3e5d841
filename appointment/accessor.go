package appointment

import "database/sql"

// Accessor is the Postgres-backed Store.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}

var _ Store = (*Accessor)(nil)
