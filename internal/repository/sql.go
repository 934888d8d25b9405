package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLRepository implements the Data Store on database/sql, for SQLite files
// and for PostgreSQL through lib/pq.
type SQLRepository struct {
	lookups
	db     *sql.DB
	driver string
}

// Open connects to dsn with driver ("sqlite" or "postgres").
func Open(driver, dsn string) (*SQLRepository, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("repository: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: failed to ping database: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite serializes writers; one connection also keeps :memory: shared.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
	}
	return NewSQLRepository(db, driver), nil
}

// NewSQLRepository wraps an open database.
func NewSQLRepository(db *sql.DB, driver string) *SQLRepository {
	r := &SQLRepository{db: db, driver: driver}
	r.lookups = lookups{query: r.query}
	return r
}

func (r *SQLRepository) bind(query string) string {
	if r.driver == DriverPostgres {
		return rebind(query)
	}
	return query
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) (rows, func(), error) {
	rs, err := r.db.QueryContext(ctx, r.bind(query), args...)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() { rs.Close() }, nil
}

// CreateSchema creates the dataset tables when missing.
func (r *SQLRepository) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("repository: failed to create schema: %w", err)
		}
	}
	return nil
}

// Load inserts records into table inside one transaction.
func (r *SQLRepository) Load(ctx context.Context, table string, columns []string, records [][]any) (int64, error) {
	if !IsTable(table) {
		return 0, fmt.Errorf("repository: unknown table %q", table)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmtSQL := r.bind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	var n int64
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec...); err != nil {
			return 0, fmt.Errorf("repository: failed to insert into %s: %w", table, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("repository: failed to commit %s: %w", table, err)
	}
	return n, nil
}

// Count returns the number of rows in table.
func (r *SQLRepository) Count(ctx context.Context, table string) (int64, error) {
	if !IsTable(table) {
		return 0, fmt.Errorf("repository: unknown table %q", table)
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: failed to count %s: %w", table, err)
	}
	return n, nil
}

// Close closes the database.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}
