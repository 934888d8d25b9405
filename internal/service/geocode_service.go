package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"abr-geocoder/internal/matcher"
	"abr-geocoder/internal/models"
	"abr-geocoder/internal/normalize"
	"abr-geocoder/internal/resolver"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// GeoCodeRepository is the Data Store the matching pipeline reads from.
type GeoCodeRepository interface {
	resolver.CityStore
	resolver.TownStore
	resolver.ResidentialStore
	resolver.ParcelStore
}

type step struct {
	name     string
	resolver resolver.Resolver
}

// GeoCodeService runs address lines through the matching pipeline.
type GeoCodeService struct {
	normalizer *normalize.Normalizer
	city       step
	town       step
	block      step
	detail     step
	koaza      step
	parcel     step
	workers    int
}

// Option configures a GeoCodeService.
type Option func(*options)

type options struct {
	workers int
	fuzzy   rune
}

// WithWorkers bounds the number of records GeocodeBatch resolves at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithFuzzy lets ch stand for any single name character in patterns.
func WithFuzzy(ch rune) Option {
	return func(o *options) { o.fuzzy = ch }
}

// NewGeoCodeService creates a new geo code service
func NewGeoCodeService(repo GeoCodeRepository, opts ...Option) *GeoCodeService {
	o := options{workers: 4}
	for _, opt := range opts {
		opt(&o)
	}

	var genOpts []matcher.Option
	if o.fuzzy != 0 {
		genOpts = append(genOpts, matcher.WithWildcardHook(matcher.FuzzyHook(o.fuzzy)))
	}
	gen := matcher.NewGenerator(genOpts...)
	residential := resolver.NewResidentialResolver(repo, gen)

	return &GeoCodeService{
		normalizer: normalize.NewNormalizer(),
		city:       step{"city", resolver.NewCityResolver(repo, gen)},
		town:       step{"town", resolver.NewTownResolver(repo, gen)},
		block:      step{"block", residential.BlockStep()},
		detail:     step{"detail", residential.DetailStep()},
		koaza:      step{"koaza", residential.KoazaStep()},
		parcel:     step{"parcel", resolver.NewParcelResolver(repo)},
		workers:    o.workers,
	}
}

// Geocode resolves one address line.
func (s *GeoCodeService) Geocode(ctx context.Context, address string) (models.Query, error) {
	if strings.TrimSpace(address) == "" {
		return models.Query{}, fmt.Errorf("service: address cannot be empty")
	}
	return s.geocode(ctx, address)
}

// GeocodeBatch resolves addresses concurrently. Results keep the input order.
func (s *GeoCodeService) GeocodeBatch(ctx context.Context, addresses []string) ([]models.Query, error) {
	results := make([]models.Query, len(addresses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, address := range addresses {
		i, address := i, address
		g.Go(func() error {
			q, err := s.geocode(ctx, address)
			if err != nil {
				return err
			}
			results[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// geocode is the per-record error boundary: a MatchError ends the record at
// its last achieved level, anything else fails the call.
func (s *GeoCodeService) geocode(ctx context.Context, address string) (models.Query, error) {
	q := models.NewQuery(address, s.normalizer.Normalize(address))

	q, err := s.resolve(ctx, q)
	return settle(address, q, err)
}

// settle ends a record at its last achieved level. A MatchError from the
// pipeline, or a Query failing Validate, is logged; any other error fails
// the record.
func settle(address string, q models.Query, err error) (models.Query, error) {
	if err == nil {
		err = q.Validate()
	}
	if err != nil {
		var me *models.MatchError
		if !errors.As(err, &me) {
			return models.Query{}, fmt.Errorf("service: failed to geocode %q: %w", address, err)
		}
		log.Warn().
			Err(err).
			Str("input", address).
			Str("match_level", q.MatchLevel.String()).
			Msg("record stopped at last achieved level")
	}

	return q.WithOther(strings.TrimSpace(q.TempAddress)), nil
}

func (s *GeoCodeService) resolve(ctx context.Context, q models.Query) (models.Query, error) {
	var err error
	for _, st := range []step{s.city, s.town} {
		if q, err = s.apply(ctx, st, q); err != nil {
			return q, err
		}
	}
	if q.TownID == "" {
		return q, nil
	}

	townLevel := q
	if q.RsdtAddrFlg {
		for _, st := range []step{s.block, s.detail} {
			if q, err = s.apply(ctx, st, q); err != nil {
				return q, err
			}
		}
	}
	if q, err = s.apply(ctx, s.koaza, q); err != nil {
		return q, err
	}
	if q.MatchLevel == models.LevelTownLocal {
		townLevel = q
	}

	if q.MatchLevel.AtLeast(models.LevelResidentialDetail) {
		return q, nil
	}
	p, err := s.apply(ctx, s.parcel, townLevel)
	if err != nil {
		return q, err
	}
	if p.MatchLevel == models.LevelParcel {
		return p, nil
	}
	return q, nil
}

func (s *GeoCodeService) apply(ctx context.Context, st step, q models.Query) (models.Query, error) {
	if err := ctx.Err(); err != nil {
		return q, err
	}
	next, err := st.resolver.Resolve(ctx, q)
	if err != nil {
		return q, err
	}
	if next.MatchLevel != q.MatchLevel {
		log.Debug().
			Str("step", st.name).
			Str("input", q.Input).
			Str("lg_code", next.LgCode).
			Str("town_id", next.TownID).
			Str("match_level", next.MatchLevel.String()).
			Msg("resolved")
	}
	return next, nil
}
