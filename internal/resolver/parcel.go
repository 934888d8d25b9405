package resolver

import (
	"context"
	"regexp"
	"strings"

	"abr-geocoder/internal/models"
	"abr-geocoder/internal/normalize"

	"github.com/rs/zerolog/log"
)

var reParcel = regexp.MustCompile(`^([1-9][0-9]*)(?:-([1-9][0-9]*))?(?:-([1-9][0-9]*))?`)

// ParcelResolver resolves cadastral parcel numbers (chiban).
type ParcelResolver struct {
	store   ParcelStore
	parcels memo[map[string]models.ParcelRow]
}

// NewParcelResolver creates a ParcelResolver. Parcel tables are cached per
// (lg_code, town_id).
func NewParcelResolver(store ParcelStore) *ParcelResolver {
	return &ParcelResolver{store: store}
}

// Find matches up to three leading dash-separated numbers against the
// town's parcels, trying the longest key first. Segments not used by the
// matched key are put back in front of the remainder, dash-prefixed. On no
// match the Query is returned as it came in.
func (r *ParcelResolver) Find(ctx context.Context, q models.Query) (models.Query, error) {
	if q.TownID == "" || q.MatchLevel.Code() > models.LevelTownLocal.Code() {
		return q, nil
	}
	m := reParcel.FindStringSubmatch(q.TempAddress)
	if m == nil {
		return q, nil
	}
	var segments []string
	for _, s := range m[1:] {
		if s != "" {
			segments = append(segments, s)
		}
	}
	rest := q.TempAddress[len(m[0]):]

	index, err := r.parcels.get(cacheKey(q.LgCode, q.TownID), func() (map[string]models.ParcelRow, error) {
		rows, err := r.store.ListParcels(ctx, q.LgCode, q.TownID)
		if err != nil {
			return nil, models.DataStoreError("listParcels", err)
		}
		index := make(map[string]models.ParcelRow, len(rows))
		for _, row := range rows {
			if row.PrcID == "" {
				return nil, models.InvariantError("listParcels", "parcel of %s/%s has no prc_id", q.LgCode, q.TownID)
			}
			row.PrcNum1 = trimZeros(row.PrcNum1)
			row.PrcNum2 = trimZeros(row.PrcNum2)
			row.PrcNum3 = trimZeros(row.PrcNum3)
			key := parcelKey(row)
			if _, dup := index[key]; !dup {
				index[key] = row
			}
		}
		return index, nil
	})
	if err != nil {
		return q, err
	}

	for n := len(segments); n >= 1; n-- {
		row, ok := index[strings.Join(segments[:n], normalize.Dash)]
		if !ok {
			continue
		}
		var leftover strings.Builder
		for _, s := range segments[n:] {
			leftover.WriteString(normalize.Dash + s)
		}
		log.Debug().Str("town_id", q.TownID).Str("prc_id", row.PrcID).Int("segments", n).Msg("parcel matched")
		return q.WithParcel(row, leftover.String()+rest), nil
	}
	return q, nil
}

// Resolve implements Resolver.
func (r *ParcelResolver) Resolve(ctx context.Context, q models.Query) (models.Query, error) {
	return r.Find(ctx, q)
}

// parcelKey joins the non-empty parcel segments up to the first empty one.
func parcelKey(row models.ParcelRow) string {
	key := row.PrcNum1
	for _, s := range []string{row.PrcNum2, row.PrcNum3} {
		if s == "" {
			break
		}
		key += normalize.Dash + s
	}
	return key
}
