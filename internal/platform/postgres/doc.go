// Package postgres contains the PostgreSQL implementations of the store
// interfaces defined in internal/store, backed by the pgx driver through
// database/sql.
package postgres
