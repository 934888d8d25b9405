package resolver

import (
	"context"

	"abr-geocoder/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of every Data Store lookup.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListCities(ctx context.Context) ([]models.CityRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CityRow), args.Error(1)
}

func (m *MockStore) ListTowns(ctx context.Context, prefecture, city string) ([]models.TownRow, error) {
	args := m.Called(ctx, prefecture, city)
	return args.Get(0).([]models.TownRow), args.Error(1)
}

func (m *MockStore) ListBlocks(ctx context.Context, lgCode, townID string) ([]models.BlockRow, error) {
	args := m.Called(ctx, lgCode, townID)
	return args.Get(0).([]models.BlockRow), args.Error(1)
}

func (m *MockStore) ListResidentials(ctx context.Context, lgCode, townID, blockID string) ([]models.ResidentialRow, error) {
	args := m.Called(ctx, lgCode, townID, blockID)
	return args.Get(0).([]models.ResidentialRow), args.Error(1)
}

func (m *MockStore) ListKoazas(ctx context.Context, lgCode, townID string) ([]models.TownRow, error) {
	args := m.Called(ctx, lgCode, townID)
	return args.Get(0).([]models.TownRow), args.Error(1)
}

func (m *MockStore) ListParcels(ctx context.Context, lgCode, townID string) ([]models.ParcelRow, error) {
	args := m.Called(ctx, lgCode, townID)
	return args.Get(0).([]models.ParcelRow), args.Error(1)
}
