package resolver

import (
	"context"
	"errors"
	"testing"

	"abr-geocoder/internal/matcher"
	"abr-geocoder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cityQuery(prefecture, city, lgCode, rest string) models.Query {
	return models.NewQuery(prefecture+city+rest, prefecture+city+rest).
		WithCity(models.CityRow{LgCode: lgCode, Prefecture: prefecture, City: city}, rest)
}

func TestTownResolver_Find(t *testing.T) {
	tests := []struct {
		name        string
		prefecture  string
		city        string
		rows        []models.TownRow
		address     string
		expectNil   bool
		expectID    string
		expectName  string
		expectTemp  string
		expectKoaza string
	}{
		{
			name:       "town without chome",
			prefecture: "東京都",
			city:       "千代田区",
			rows: []models.TownRow{
				{LgCode: "131016", TownID: "0056000", Name: "紀尾井町", RsdtAddrFlg: true},
			},
			address:    "紀尾井町1-3 東京ガーデンテラス紀尾井町 19階、20階",
			expectID:   "0056000",
			expectName: "紀尾井町",
			expectTemp: "1-3 東京ガーデンテラス紀尾井町 19階、20階",
		},
		{
			name:       "longest name wins",
			prefecture: "東京都",
			city:       "港区",
			rows: []models.TownRow{
				{LgCode: "131032", TownID: "0007003", Name: "港南三丁目"},
				{LgCode: "131032", TownID: "0007000", Name: "港南"},
			},
			address:    "港南三丁目100-1",
			expectID:   "0007003",
			expectName: "港南三丁目",
			expectTemp: "100-1",
		},
		{
			name:       "arabic chome",
			prefecture: "東京都",
			city:       "港区",
			rows: []models.TownRow{
				{LgCode: "131032", TownID: "0007003", Name: "港南三丁目"},
				{LgCode: "131032", TownID: "0007000", Name: "港南"},
			},
			address:    "港南3丁目100-1",
			expectID:   "0007003",
			expectName: "港南三丁目",
			expectTemp: "100-1",
		},
		{
			name:       "alias without town suffix",
			prefecture: "東京都",
			city:       "大田区",
			rows: []models.TownRow{
				{LgCode: "131113", TownID: "0100000", Name: "六郷町"},
			},
			address:    "六郷1-2",
			expectID:   "0100000",
			expectName: "六郷町",
			expectTemp: "1-2",
		},
		{
			name:       "leading oaza trimmed",
			prefecture: "島根県",
			city:       "松江市",
			rows: []models.TownRow{
				{LgCode: "322016", TownID: "0002000", Name: "東津田町"},
			},
			address:    "大字東津田町121-2",
			expectID:   "0002000",
			expectName: "東津田町",
			expectTemp: "121-2",
		},
		{
			name:       "shared name keeps the smallest town_id",
			prefecture: "岩手県",
			city:       "八幡平市",
			rows: []models.TownRow{
				{LgCode: "032140", TownID: "0010001", Name: "平舘", Koaza: "第一地割"},
				{LgCode: "032140", TownID: "0010002", Name: "平舘", Koaza: "第二地割"},
			},
			address:     "平舘2地割10",
			expectID:    "0010001",
			expectName:  "平舘",
			expectTemp:  "2地割10",
			expectKoaza: "第一地割",
		},
		{
			name:       "kyoto street prefix",
			prefecture: "京都府",
			city:       "京都市中京区",
			rows: []models.TownRow{
				{LgCode: "261041", TownID: "0123000", Name: "菊屋町"},
			},
			address:    "高辻通室町西入菊屋町123",
			expectID:   "0123000",
			expectName: "菊屋町",
			expectTemp: "123",
		},
		{
			name:       "kyoto skips town suffix alias",
			prefecture: "京都府",
			city:       "京都市中京区",
			rows: []models.TownRow{
				{LgCode: "261041", TownID: "0123000", Name: "菊屋町"},
			},
			address:   "菊屋123",
			expectNil: true,
		},
		{
			name:       "no match",
			prefecture: "東京都",
			city:       "千代田区",
			rows: []models.TownRow{
				{LgCode: "131016", TownID: "0056000", Name: "紀尾井町"},
			},
			address:   "丸の内1-1",
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			store.On("ListTowns", mock.Anything, tt.prefecture, tt.city).Return(tt.rows, nil)
			r := NewTownResolver(store, matcher.NewGenerator())

			got, err := r.Find(context.Background(), tt.prefecture, tt.city, tt.address)
			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expectID, got.TownID)
			assert.Equal(t, tt.expectName, got.Name)
			assert.Equal(t, tt.expectTemp, got.TempAddress)
			assert.Equal(t, tt.expectKoaza, got.Koaza)
			store.AssertExpectations(t)
		})
	}
}

func TestTownResolver_Resolve(t *testing.T) {
	store := new(MockStore)
	store.On("ListTowns", mock.Anything, "東京都", "千代田区").Return([]models.TownRow{
		{
			LgCode:      "131016",
			TownID:      "0056000",
			Name:        "紀尾井町",
			Latitude:    models.Float(35.681),
			Longitude:   models.Float(139.737),
			RsdtAddrFlg: true,
		},
	}, nil)
	r := NewTownResolver(store, matcher.NewGenerator())
	ctx := context.Background()

	q := cityQuery("東京都", "千代田区", "131016", "紀尾井町1-3 東京ガーデンテラス紀尾井町 19階、20階")
	got, err := r.Resolve(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, models.LevelTownLocal, got.MatchLevel)
	assert.Equal(t, "紀尾井町", got.Town)
	assert.Equal(t, "0056000", got.TownID)
	assert.Equal(t, "131016", got.LgCode)
	assert.True(t, got.RsdtAddrFlg)
	assert.Equal(t, "1-3 東京ガーデンテラス紀尾井町 19階、20階", got.TempAddress)
	assert.Equal(t, 35.681, *got.Latitude)

	miss := cityQuery("東京都", "千代田区", "131016", "永田町1-7-1")
	unchanged, err := r.Resolve(ctx, miss)
	require.NoError(t, err)
	assert.Equal(t, miss, unchanged)

	// Patterns are compiled once per city.
	store.AssertNumberOfCalls(t, "ListTowns", 1)
}

func TestTownResolver_DataStoreError(t *testing.T) {
	store := new(MockStore)
	store.On("ListTowns", mock.Anything, "東京都", "千代田区").Return([]models.TownRow(nil), errors.New("connection refused"))
	r := NewTownResolver(store, matcher.NewGenerator())

	q := cityQuery("東京都", "千代田区", "131016", "紀尾井町1-3")
	got, err := r.Resolve(context.Background(), q)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataStore))
	assert.Equal(t, q, got)
}

func TestTownResolver_WildcardHook(t *testing.T) {
	store := new(MockStore)
	store.On("ListTowns", mock.Anything, "東京都", "千代田区").Return([]models.TownRow{
		{LgCode: "131016", TownID: "0056000", Name: "紀尾井町"},
	}, nil)
	gen := matcher.NewGenerator(matcher.WithWildcardHook(matcher.FuzzyHook('?')))
	r := NewTownResolver(store, gen)

	got, err := r.Find(context.Background(), "東京都", "千代田区", "紀?井町1-3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0056000", got.TownID)
	assert.Equal(t, "1-3", got.TempAddress)
}

func TestIsKyotoWard(t *testing.T) {
	assert.True(t, isKyotoWard("京都府", "京都市中京区"))
	assert.False(t, isKyotoWard("京都府", "宇治市"))
	assert.False(t, isKyotoWard("東京都", "千代田区"))
}
