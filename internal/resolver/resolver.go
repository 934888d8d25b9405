// Package resolver refines a models.Query step by step against the
// administrative address dataset. A resolver that finds nothing returns its
// input unchanged and a nil error; errors are always *models.MatchError.
package resolver

import (
	"context"

	"abr-geocoder/internal/models"
)

// Resolver is one refinement step of the matching pipeline.
type Resolver interface {
	Resolve(ctx context.Context, q models.Query) (models.Query, error)
}

// Func adapts a function to Resolver.
type Func func(ctx context.Context, q models.Query) (models.Query, error)

// Resolve implements Resolver.
func (f Func) Resolve(ctx context.Context, q models.Query) (models.Query, error) {
	return f(ctx, q)
}

// CityStore lists every municipality.
type CityStore interface {
	ListCities(ctx context.Context) ([]models.CityRow, error)
}

// TownStore lists the towns of a city, longest name first and town_id
// ascending within equal lengths.
type TownStore interface {
	ListTowns(ctx context.Context, prefecture, city string) ([]models.TownRow, error)
}

// ResidentialStore serves the residential-display lookups.
type ResidentialStore interface {
	ListBlocks(ctx context.Context, lgCode, townID string) ([]models.BlockRow, error)
	ListResidentials(ctx context.Context, lgCode, townID, blockID string) ([]models.ResidentialRow, error)
	ListKoazas(ctx context.Context, lgCode, townID string) ([]models.TownRow, error)
}

// ParcelStore serves the parcel lookup.
type ParcelStore interface {
	ListParcels(ctx context.Context, lgCode, townID string) ([]models.ParcelRow, error)
}
