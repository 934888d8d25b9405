package repository

import (
	"context"
	"fmt"

	"abr-geocoder/internal/models"
)

// rows is the part of pgx.Rows and *sql.Rows the lookups need.
type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// querier runs a ?-placeholder query and returns the rows with their closer.
type querier func(ctx context.Context, query string, args ...any) (rows, func(), error)

// lookups implements the read-only Data Store contract on top of a querier.
type lookups struct {
	query querier
}

// ListCities returns every municipality.
func (l lookups) ListCities(ctx context.Context) ([]models.CityRow, error) {
	return collect(ctx, l.query, sqlListCities, func(r rows) (models.CityRow, error) {
		var c models.CityRow
		err := r.Scan(&c.LgCode, &c.Prefecture, &c.County, &c.City, &c.Ward, &c.Latitude, &c.Longitude)
		return c, err
	})
}

// ListTowns returns the named towns of a city, longest name first and
// town_id ascending among equal lengths.
func (l lookups) ListTowns(ctx context.Context, prefecture, city string) ([]models.TownRow, error) {
	return collect(ctx, l.query, sqlListTowns, scanTown, prefecture, city)
}

// ListKoazas returns the towns sharing the ōaza of townID that carry a koaza.
func (l lookups) ListKoazas(ctx context.Context, lgCode, townID string) ([]models.TownRow, error) {
	if len(townID) < 4 {
		return nil, fmt.Errorf("repository: malformed town_id %q", townID)
	}
	return collect(ctx, l.query, sqlListKoazas, scanTown, lgCode, townID[:4])
}

// ListBlocks returns the residential-display blocks of a town.
func (l lookups) ListBlocks(ctx context.Context, lgCode, townID string) ([]models.BlockRow, error) {
	return collect(ctx, l.query, sqlListBlocks, func(r rows) (models.BlockRow, error) {
		var b models.BlockRow
		err := r.Scan(&b.BlockNum, &b.BlockID, &b.Latitude, &b.Longitude)
		return b, err
	}, lgCode, townID)
}

// ListResidentials returns the residential numbers of a block.
func (l lookups) ListResidentials(ctx context.Context, lgCode, townID, blockID string) ([]models.ResidentialRow, error) {
	return collect(ctx, l.query, sqlListResidentials, func(r rows) (models.ResidentialRow, error) {
		var res models.ResidentialRow
		err := r.Scan(&res.Addr1, &res.Addr1ID, &res.Addr2, &res.Addr2ID, &res.Latitude, &res.Longitude)
		return res, err
	}, lgCode, townID, blockID)
}

// ListParcels returns the parcels of a town.
func (l lookups) ListParcels(ctx context.Context, lgCode, townID string) ([]models.ParcelRow, error) {
	return collect(ctx, l.query, sqlListParcels, func(r rows) (models.ParcelRow, error) {
		var p models.ParcelRow
		err := r.Scan(&p.PrcNum1, &p.PrcNum2, &p.PrcNum3, &p.PrcID, &p.Latitude, &p.Longitude)
		return p, err
	}, lgCode, townID)
}

// FindNearestTown returns the town whose representative point is closest to
// the given coordinates, or nil when the dataset has no located town.
func (l lookups) FindNearestTown(ctx context.Context, lat, lon float64) (*models.Place, error) {
	places, err := collect(ctx, l.query, sqlNearestTown, func(r rows) (models.Place, error) {
		var p models.Place
		err := r.Scan(
			&p.City.LgCode,
			&p.City.Prefecture,
			&p.City.County,
			&p.City.City,
			&p.City.Ward,
			&p.City.Latitude,
			&p.City.Longitude,
			&p.Town.TownID,
			&p.Town.Name,
			&p.Town.Koaza,
			&p.Town.Latitude,
			&p.Town.Longitude,
			&p.Town.RsdtAddrFlg,
		)
		p.Town.LgCode = p.City.LgCode
		return p, err
	}, lat, lat, lon, lon)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}
	return &places[0], nil
}

func scanTown(r rows) (models.TownRow, error) {
	var t models.TownRow
	err := r.Scan(&t.LgCode, &t.TownID, &t.Name, &t.Koaza, &t.Latitude, &t.Longitude, &t.RsdtAddrFlg)
	return t, err
}

func collect[T any](ctx context.Context, q querier, query string, scan func(rows) (T, error), args ...any) ([]T, error) {
	rs, done, err := q(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute query: %w", err)
	}
	defer done()

	var out []T
	for rs.Next() {
		v, err := scan(rs)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}
	return out, nil
}
