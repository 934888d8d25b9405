package repository

import (
	"context"
	"fmt"

	"abr-geocoder/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DriverPgx selects PostgresRepository.
const DriverPgx = "pgx"

// Store is the full Data Store: the matching lookups, reverse geocoding and
// the loader used by the importer.
type Store interface {
	ListCities(ctx context.Context) ([]models.CityRow, error)
	ListTowns(ctx context.Context, prefecture, city string) ([]models.TownRow, error)
	ListKoazas(ctx context.Context, lgCode, townID string) ([]models.TownRow, error)
	ListBlocks(ctx context.Context, lgCode, townID string) ([]models.BlockRow, error)
	ListResidentials(ctx context.Context, lgCode, townID, blockID string) ([]models.ResidentialRow, error)
	ListParcels(ctx context.Context, lgCode, townID string) ([]models.ParcelRow, error)
	FindNearestTown(ctx context.Context, lat, lon float64) (*models.Place, error)

	CreateSchema(ctx context.Context) error
	Load(ctx context.Context, table string, columns []string, records [][]any) (int64, error)
	Count(ctx context.Context, table string) (int64, error)
	Close() error
}

var (
	_ Store = (*PostgresRepository)(nil)
	_ Store = (*SQLRepository)(nil)
)

// Connect opens the store selected by driver: "pgx" for a pgx pool,
// "postgres" or "sqlite" for database/sql.
func Connect(ctx context.Context, driver, dsn string) (Store, error) {
	if driver != DriverPgx {
		return Open(driver, dsn)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("repository: failed to ping database: %w", err)
	}
	return NewPostgresRepository(pool), nil
}
