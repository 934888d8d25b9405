package resolver

import (
	"context"
	"strings"

	"abr-geocoder/internal/matcher"
	"abr-geocoder/internal/models"

	"github.com/rs/zerolog/log"
)

const oazaToken = "大字"

// TownResolver finds the ōaza/chō of a city at the start of the remaining
// address text.
type TownResolver struct {
	store    TownStore
	gen      *matcher.Generator
	patterns memo[[]*matcher.Pattern[models.TownRow]]
}

// NewTownResolver creates a TownResolver. Patterns are compiled once per
// (prefecture, city) and reused.
func NewTownResolver(store TownStore, gen *matcher.Generator) *TownResolver {
	return &TownResolver{store: store, gen: gen}
}

// Find returns nil when no town of the city matches address. The match
// carries the row's full 7-digit town_id rather than its 4-digit oaza part
// padded with 000, since block and parcel lookups key on the full id.
func (r *TownResolver) Find(ctx context.Context, prefecture, city, address string) (*models.TownMatch, error) {
	text := strings.TrimPrefix(address, oazaToken)
	kyoto := isKyotoWard(prefecture, city)

	patterns, err := r.patterns.get(cacheKey(prefecture, city), func() ([]*matcher.Pattern[models.TownRow], error) {
		rows, err := r.store.ListTowns(ctx, prefecture, city)
		if err != nil {
			return nil, models.DataStoreError("listTowns", err)
		}
		return matcher.Build(r.gen, rows, townName, !kyoto)
	})
	if err != nil {
		return nil, err
	}

	p, n, ok := matcher.FindPrefix(patterns, text)
	if !ok && kyoto {
		// Kyoto addresses often lead with a street name.
		p, n, ok = matcher.FindAnywhere(patterns, text)
	}
	if !ok {
		return nil, nil
	}

	town := p.Row
	if town.LgCode == "" || town.TownID == "" {
		return nil, models.InvariantError("listTowns", "town %q has no lg_code/town_id", town.Name)
	}
	log.Debug().
		Str("city", city).
		Str("town", town.Name).
		Str("town_id", town.TownID).
		Str("pattern", p.Name).
		Msg("town matched")

	return &models.TownMatch{
		LgCode:      town.LgCode,
		TownID:      town.TownID,
		Name:        town.Name,
		Koaza:       town.Koaza,
		Latitude:    town.Latitude,
		Longitude:   town.Longitude,
		RsdtAddrFlg: town.RsdtAddrFlg,
		TempAddress: text[n:],
	}, nil
}

// Resolve applies Find to a Query whose city is known.
func (r *TownResolver) Resolve(ctx context.Context, q models.Query) (models.Query, error) {
	if q.City == "" || q.TownID != "" {
		return q, nil
	}
	m, err := r.Find(ctx, q.Prefecture, q.City, q.TempAddress)
	if err != nil || m == nil {
		return q, err
	}
	return q.WithTown(*m), nil
}

func townName(t models.TownRow) string {
	return t.Name
}

// isKyotoWard reports whether city is one of the wards of Kyoto-shi, where
// street names precede the town name.
func isKyotoWard(prefecture, city string) bool {
	return prefecture == "京都府" && strings.HasPrefix(city, "京都市") && strings.HasSuffix(city, "区")
}
