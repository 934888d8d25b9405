package resolver

import (
	"context"

	"abr-geocoder/internal/matcher"
	"abr-geocoder/internal/models"
)

type cityCandidate struct {
	row  models.CityRow
	name string
}

type prefectureCandidate struct {
	name string
}

type cityPatterns struct {
	cities      []*matcher.Pattern[cityCandidate]
	prefectures []*matcher.Pattern[prefectureCandidate]
}

// CityResolver finds the prefecture and municipality at the start of the
// normalized address.
type CityResolver struct {
	store    CityStore
	gen      *matcher.Generator
	patterns memo[*cityPatterns]
}

// NewCityResolver creates a CityResolver.
func NewCityResolver(store CityStore, gen *matcher.Generator) *CityResolver {
	return &CityResolver{store: store, gen: gen}
}

// Resolve sets prefecture, city and lg_code. A prefecture without a
// recognizable city still raises the Query to PREFECTURE.
func (r *CityResolver) Resolve(ctx context.Context, q models.Query) (models.Query, error) {
	if q.MatchLevel.AtLeast(models.LevelCity) {
		return q, nil
	}

	ps, err := r.patterns.get("", func() (*cityPatterns, error) {
		return r.build(ctx)
	})
	if err != nil {
		return q, err
	}

	text := q.TempAddress
	if p, n, ok := matcher.FindPrefix(ps.cities, text); ok {
		return q.WithCity(p.Row.row, text[n:]), nil
	}
	if p, n, ok := matcher.FindPrefix(ps.prefectures, text); ok {
		return q.WithPrefecture(p.Row.name, text[n:]), nil
	}
	return q, nil
}

func (r *CityResolver) build(ctx context.Context) (*cityPatterns, error) {
	rows, err := r.store.ListCities(ctx)
	if err != nil {
		return nil, models.DataStoreError("listCities", err)
	}

	// A bare city name is only usable when no other prefecture has one too.
	seen := make(map[string]int)
	for _, c := range rows {
		seen[c.Name()]++
	}

	var cities []cityCandidate
	var prefectures []prefectureCandidate
	known := make(map[string]bool)
	for _, c := range rows {
		if c.Prefecture == "" || c.Name() == "" {
			return nil, models.InvariantError("listCities", "city %q has no prefecture or name", c.LgCode)
		}
		cities = append(cities, cityCandidate{row: c, name: c.Prefecture + c.Name()})
		if seen[c.Name()] == 1 {
			cities = append(cities, cityCandidate{row: c, name: c.Name()})
		}
		if !known[c.Prefecture] {
			known[c.Prefecture] = true
			prefectures = append(prefectures, prefectureCandidate{name: c.Prefecture})
		}
	}

	cityPs, err := matcher.Build(r.gen, cities, func(c cityCandidate) string { return c.name }, false)
	if err != nil {
		return nil, err
	}
	prefPs, err := matcher.Build(r.gen, prefectures, func(p prefectureCandidate) string { return p.name }, false)
	if err != nil {
		return nil, err
	}
	return &cityPatterns{cities: cityPs, prefectures: prefPs}, nil
}
