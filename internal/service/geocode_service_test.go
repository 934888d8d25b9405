package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"abr-geocoder/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory GeoCodeRepository.
type fakeRepository struct {
	mu     sync.Mutex
	calls  map[string]int
	fail   map[string]error
	cities []models.CityRow
	towns  map[string][]models.TownRow
	blocks map[string][]models.BlockRow
	rsdts  map[string][]models.ResidentialRow
	prcs   map[string][]models.ParcelRow
}

func (f *fakeRepository) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeRepository) ListCities(ctx context.Context) ([]models.CityRow, error) {
	return f.cities, f.record("ListCities")
}

func (f *fakeRepository) ListTowns(ctx context.Context, prefecture, city string) ([]models.TownRow, error) {
	return f.towns[prefecture+city], f.record("ListTowns")
}

func (f *fakeRepository) ListKoazas(ctx context.Context, lgCode, townID string) ([]models.TownRow, error) {
	return nil, f.record("ListKoazas")
}

func (f *fakeRepository) ListBlocks(ctx context.Context, lgCode, townID string) ([]models.BlockRow, error) {
	return f.blocks[lgCode+townID], f.record("ListBlocks")
}

func (f *fakeRepository) ListResidentials(ctx context.Context, lgCode, townID, blockID string) ([]models.ResidentialRow, error) {
	return f.rsdts[lgCode+townID+blockID], f.record("ListResidentials")
}

func (f *fakeRepository) ListParcels(ctx context.Context, lgCode, townID string) ([]models.ParcelRow, error) {
	return f.prcs[lgCode+townID], f.record("ListParcels")
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		cities: []models.CityRow{
			{LgCode: "131016", Prefecture: "東京都", City: "千代田区", Latitude: models.Float(35.694003), Longitude: models.Float(139.753595)},
			{LgCode: "322016", Prefecture: "島根県", City: "松江市", Latitude: models.Float(35.468), Longitude: models.Float(133.048)},
		},
		towns: map[string][]models.TownRow{
			"東京都千代田区": {
				{LgCode: "131016", TownID: "0007001", Name: "紀尾井町", Latitude: models.Float(35.681), Longitude: models.Float(139.737), RsdtAddrFlg: true},
			},
			"島根県松江市": {
				{LgCode: "322016", TownID: "0002000", Name: "東津田町", Latitude: models.Float(35.44), Longitude: models.Float(133.1)},
			},
		},
		blocks: map[string][]models.BlockRow{
			"1310160007001": {{BlockNum: "1", BlockID: "001", Latitude: models.Float(35.6808), Longitude: models.Float(139.7367)}},
		},
		rsdts: map[string][]models.ResidentialRow{
			"1310160007001001": {{Addr1: "3", Addr1ID: "003", Latitude: models.Float(35.68098), Longitude: models.Float(139.73675)}},
		},
		prcs: map[string][]models.ParcelRow{
			"3220160002000": {{PrcNum1: "121", PrcNum2: "2", PrcID: "001210000200000", Latitude: models.Float(35.44712148), Longitude: models.Float(133.105246137)}},
		},
	}
}

func TestGeoCodeService_Geocode(t *testing.T) {
	tests := []struct {
		name        string
		address     string
		expectLevel models.MatchLevel
		expectOut   string
		expectOther string
		expectLat   float64
		expectError bool
	}{
		{
			name:        "empty address",
			address:     "  ",
			expectError: true,
		},
		{
			name:        "residential detail",
			address:     "東京都千代田区紀尾井町1番3号",
			expectLevel: models.LevelResidentialDetail,
			expectOut:   "東京都千代田区紀尾井町1-3",
			expectLat:   35.68098,
		},
		{
			name:        "full-width input",
			address:     "東京都千代田区紀尾井町１－３　東京ガーデンテラス",
			expectLevel: models.LevelResidentialDetail,
			expectOut:   "東京都千代田区紀尾井町1-3東京ガーデンテラス",
			expectOther: "東京ガーデンテラス",
			expectLat:   35.68098,
		},
		{
			name:        "parcel",
			address:     "島根県松江市東津田町121-2",
			expectLevel: models.LevelParcel,
			expectOut:   "島根県松江市東津田町121-2",
			expectLat:   35.44712148,
		},
		{
			name:        "town only",
			address:     "東京都千代田区紀尾井町9-9 ビル",
			expectLevel: models.LevelTownLocal,
			expectOut:   "東京都千代田区紀尾井町9-9 ビル",
			expectOther: "9-9 ビル",
			expectLat:   35.681,
		},
		{
			name:        "unmatched",
			address:     "どこか遠く",
			expectLevel: models.LevelUnmatched,
			expectOut:   "どこか遠く",
			expectOther: "どこか遠く",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewGeoCodeService(newFakeRepository())

			result, err := service.Geocode(context.Background(), tt.address)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.address, result.Input)
			assert.Equal(t, tt.expectLevel, result.MatchLevel)
			assert.Equal(t, tt.expectOut, result.Formatted())
			assert.Equal(t, tt.expectOther, result.Other)
			assert.Empty(t, result.TempAddress)
			if tt.expectLat != 0 {
				require.NotNil(t, result.Latitude)
				assert.Equal(t, tt.expectLat, *result.Latitude)
			} else {
				assert.Nil(t, result.Latitude)
			}
			assert.NoError(t, result.Validate())
		})
	}
}

func TestGeoCodeService_ParcelFallbackUsesTownLevel(t *testing.T) {
	repo := newFakeRepository()
	repo.prcs["1310160007001"] = []models.ParcelRow{{PrcNum1: "1", PrcNum2: "5", PrcID: "000010000500000", Latitude: models.Float(35.6801), Longitude: models.Float(139.7361)}}
	service := NewGeoCodeService(repo)

	result, err := service.Geocode(context.Background(), "東京都千代田区紀尾井町1-5")
	require.NoError(t, err)

	assert.Equal(t, models.LevelParcel, result.MatchLevel)
	assert.Equal(t, "000010000500000", result.PrcID)
	assert.Empty(t, result.BlockID)
	assert.Equal(t, "", result.Other)
}

func TestGeoCodeService_DataStoreErrorEndsRecord(t *testing.T) {
	repo := newFakeRepository()
	repo.fail = map[string]error{"ListTowns": errors.New("connection reset")}
	service := NewGeoCodeService(repo)

	result, err := service.Geocode(context.Background(), "東京都千代田区紀尾井町1-3")
	require.NoError(t, err)

	assert.Equal(t, models.LevelCity, result.MatchLevel)
	assert.Equal(t, "131016", result.LgCode)
	assert.Equal(t, "紀尾井町1-3", result.Other)
}

func TestSettle_InvalidQueryIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	q := models.Query{BlockID: "001", TempAddress: " 2F "}
	result, err := settle("紀尾井町1-3 2F", q, nil)
	require.NoError(t, err)

	assert.Equal(t, "2F", result.Other)
	assert.Contains(t, buf.String(), models.ErrInvariantViolation.Error())
	assert.Contains(t, buf.String(), "block_id")
}

func TestSettle_ForeignErrorFails(t *testing.T) {
	_, err := settle("紀尾井町", models.Query{}, context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeoCodeService_CanceledContext(t *testing.T) {
	service := NewGeoCodeService(newFakeRepository())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Geocode(ctx, "東京都千代田区紀尾井町1-3")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeoCodeService_Fuzzy(t *testing.T) {
	service := NewGeoCodeService(newFakeRepository(), WithFuzzy('?'))

	result, err := service.Geocode(context.Background(), "東京都千代田区紀?井町1-3")
	require.NoError(t, err)
	assert.Equal(t, models.LevelResidentialDetail, result.MatchLevel)
	assert.Equal(t, "紀尾井町", result.Town)
}

func TestGeoCodeService_GeocodeBatch(t *testing.T) {
	repo := newFakeRepository()
	service := NewGeoCodeService(repo, WithWorkers(3))

	addresses := make([]string, 0, 40)
	for i := 0; i < 10; i++ {
		addresses = append(addresses,
			"東京都千代田区紀尾井町1-3",
			"島根県松江市東津田町121-2",
			fmt.Sprintf("どこか%d", i),
			"",
		)
	}

	results, err := service.GeocodeBatch(context.Background(), addresses)
	require.NoError(t, err)
	require.Len(t, results, len(addresses))

	for i, r := range results {
		assert.Equal(t, addresses[i], r.Input)
		switch i % 4 {
		case 0:
			assert.Equal(t, models.LevelResidentialDetail, r.MatchLevel)
		case 1:
			assert.Equal(t, models.LevelParcel, r.MatchLevel)
		default:
			assert.Equal(t, models.LevelUnmatched, r.MatchLevel)
		}
	}

	// Pattern tables are built once no matter how many workers ask.
	assert.Equal(t, 1, repo.calls["ListCities"])
	assert.Equal(t, 2, repo.calls["ListTowns"])
}
