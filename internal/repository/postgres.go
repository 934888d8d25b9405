package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the Data Store on a pgx connection pool.
type PostgresRepository struct {
	lookups
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	r := &PostgresRepository{db: db}
	r.lookups = lookups{query: r.query}
	return r
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) (rows, func(), error) {
	rs, err := r.db.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, nil, err
	}
	return rs, rs.Close, nil
}

// CreateSchema creates the dataset tables when missing.
func (r *PostgresRepository) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("repository: failed to create schema: %w", err)
		}
	}
	return nil
}

// Load bulk-inserts records into table with COPY.
func (r *PostgresRepository) Load(ctx context.Context, table string, columns []string, records [][]any) (int64, error) {
	if !IsTable(table) {
		return 0, fmt.Errorf("repository: unknown table %q", table)
	}
	n, err := r.db.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(records))
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy into %s: %w", table, err)
	}
	return n, nil
}

// Count returns the number of rows in table.
func (r *PostgresRepository) Count(ctx context.Context, table string) (int64, error) {
	if !IsTable(table) {
		return 0, fmt.Errorf("repository: unknown table %q", table)
	}
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: failed to count %s: %w", table, err)
	}
	return n, nil
}

// Close releases the pool.
func (r *PostgresRepository) Close() error {
	r.db.Close()
	return nil
}
