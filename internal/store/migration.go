package store

import (
	"context"
	"database/sql"
)

// Migration is one schema change owned by a component. Versions are
// ascending integers scoped to the component name.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// Store is the persistence surface repositories depend on.
type Store interface {
	// DB returns the shared connection pool.
	DB() *sql.DB

	// Tx runs fn in a transaction, committing when fn returns nil.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Migrate applies the component's pending migrations in order.
	Migrate(ctx context.Context, component string, migrations []Migration) error
}
