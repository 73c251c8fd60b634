package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the connection pool shared by the ledger repository.
type DB struct {
	*sql.DB
}

// NewDB opens a connection pool for the given DSN and verifies it with a
// bounded ping. The DSN follows the usual key=value form, e.g.
// "host=localhost port=5432 user=postgres password=postgres dbname=tokenart sslmode=disable".
func NewDB(dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	// The workload is a handful of append/read queries per user action; a
	// small pool is plenty.
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
