package service

import (
	"context"
	"fmt"

	"abr-geocoder/internal/models"
)

// ReverseGeoCodeService contains the core business logic for reverse geocoding operations
type ReverseGeoCodeService struct {
	repo ReverseGeoCodeRepository
}

// ReverseGeoCodeRepository interface for dependency injection
type ReverseGeoCodeRepository interface {
	FindNearestTown(ctx context.Context, lat, lon float64) (*models.Place, error)
}

// NewReverseGeoCodeService creates a new reverse geo code service
func NewReverseGeoCodeService(repo ReverseGeoCodeRepository) *ReverseGeoCodeService {
	return &ReverseGeoCodeService{repo: repo}
}

// ReverseGeocode returns the town nearest to the given coordinates as a
// town-level Query, or nil when the dataset has no located town.
func (s *ReverseGeoCodeService) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.Query, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("service: invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("service: invalid longitude: %f", lon)
	}

	place, err := s.repo.FindNearestTown(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearest town: %w", err)
	}
	if place == nil {
		return nil, nil
	}

	q := models.Query{}.
		WithCity(place.City, "").
		WithTown(models.TownMatch{
			LgCode:      place.Town.LgCode,
			TownID:      place.Town.TownID,
			Name:        place.Town.Name,
			Koaza:       place.Town.Koaza,
			Latitude:    place.Town.Latitude,
			Longitude:   place.Town.Longitude,
			RsdtAddrFlg: place.Town.RsdtAddrFlg,
		})
	q.Input = q.Formatted()
	return &q, nil
}
