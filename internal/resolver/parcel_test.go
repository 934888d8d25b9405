package resolver

import (
	"context"
	"errors"
	"testing"

	"abr-geocoder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func matsueQuery(rest string) models.Query {
	return cityQuery("島根県", "松江市", "322016", "東津田町"+rest).
		WithTown(models.TownMatch{
			LgCode:      "322016",
			TownID:      "0002000",
			Name:        "東津田町",
			Latitude:    models.Float(35.44),
			Longitude:   models.Float(133.1),
			TempAddress: rest,
		})
}

func TestParcelResolver_Find(t *testing.T) {
	rows := []models.ParcelRow{
		{PrcNum1: "00121", PrcNum2: "0002", PrcID: "001210000200000", Latitude: models.Float(35.44712148), Longitude: models.Float(133.105246137)},
		{PrcNum1: "5", PrcID: "000050000000000"},
		{PrcNum1: "8", PrcNum2: "7", PrcID: "000080000700000", Latitude: models.Float(35.45), Longitude: models.Float(133.11)},
		{PrcNum1: "9", PrcNum2: "1", PrcNum3: "2", PrcID: "000090000100002", Latitude: models.Float(35.46), Longitude: models.Float(133.12)},
	}

	tests := []struct {
		name      string
		temp      string
		expectNum []string
		expectID  string
		expectLat float64
		expectTmp string
		unchanged bool
	}{
		{
			name:      "two segments",
			temp:      "121-2",
			expectNum: []string{"121", "2", ""},
			expectID:  "001210000200000",
			expectLat: 35.44712148,
			expectTmp: "",
		},
		{
			name:      "three segments",
			temp:      "9-1-2 倉庫",
			expectNum: []string{"9", "1", "2"},
			expectID:  "000090000100002",
			expectLat: 35.46,
			expectTmp: " 倉庫",
		},
		{
			name:      "two of three segments",
			temp:      "8-7-3",
			expectNum: []string{"8", "7", ""},
			expectID:  "000080000700000",
			expectLat: 35.45,
			expectTmp: "-3",
		},
		{
			name:      "one of three segments keeps a null point out",
			temp:      "5-7-9 2F",
			expectNum: []string{"5", "", ""},
			expectID:  "000050000000000",
			expectLat: 35.44,
			expectTmp: "-7-9 2F",
		},
		{
			name:      "no key at any granularity",
			temp:      "3-1-1",
			unchanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			store.On("ListParcels", mock.Anything, "322016", "0002000").Return(rows, nil)
			r := NewParcelResolver(store)

			in := matsueQuery(tt.temp)
			got, err := r.Find(context.Background(), in)
			require.NoError(t, err)

			if tt.unchanged {
				assert.Equal(t, in, got)
				assert.Equal(t, tt.temp, got.TempAddress)
				return
			}
			assert.Equal(t, tt.expectNum, []string{got.PrcNum1, got.PrcNum2, got.PrcNum3})
			assert.Equal(t, tt.expectID, got.PrcID)
			assert.Equal(t, tt.expectLat, *got.Latitude)
			assert.Equal(t, tt.expectTmp, got.TempAddress)
			assert.Equal(t, models.LevelParcel, got.MatchLevel)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestParcelResolver_CachesTable(t *testing.T) {
	store := new(MockStore)
	store.On("ListParcels", mock.Anything, "322016", "0002000").Return([]models.ParcelRow{
		{PrcNum1: "121", PrcNum2: "2", PrcID: "001210000200000"},
	}, nil).Once()
	r := NewParcelResolver(store)

	for _, temp := range []string{"121-2", "121-2 倉庫", "999"} {
		_, err := r.Find(context.Background(), matsueQuery(temp))
		require.NoError(t, err)
	}
	store.AssertNumberOfCalls(t, "ListParcels", 1)
}

func TestParcelResolver_NoDigitsSkipsLookup(t *testing.T) {
	store := new(MockStore)
	r := NewParcelResolver(store)

	in := matsueQuery("倉庫")
	got, err := r.Resolve(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, in, got)
	store.AssertNotCalled(t, "ListParcels", mock.Anything, mock.Anything, mock.Anything)
}

func TestParcelResolver_RequiresTown(t *testing.T) {
	store := new(MockStore)
	r := NewParcelResolver(store)

	in := cityQuery("島根県", "松江市", "322016", "121-2")
	got, err := r.Find(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestParcelResolver_Errors(t *testing.T) {
	t.Run("data store", func(t *testing.T) {
		store := new(MockStore)
		store.On("ListParcels", mock.Anything, "322016", "0002000").Return([]models.ParcelRow(nil), errors.New("boom"))
		r := NewParcelResolver(store)

		in := matsueQuery("121-2")
		got, err := r.Find(context.Background(), in)
		assert.True(t, errors.Is(err, models.ErrDataStore))
		assert.Equal(t, in, got)
	})

	t.Run("row without prc_id", func(t *testing.T) {
		store := new(MockStore)
		store.On("ListParcels", mock.Anything, "322016", "0002000").Return([]models.ParcelRow{{PrcNum1: "121"}}, nil)
		r := NewParcelResolver(store)

		in := matsueQuery("121-2")
		got, err := r.Find(context.Background(), in)
		assert.True(t, errors.Is(err, models.ErrInvariantViolation))
		assert.Equal(t, in, got)
	})
}
