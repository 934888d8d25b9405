package models

// CityRow is a municipality (or designated-city ward) from the Data Store.
type CityRow struct {
	LgCode     string   `json:"lg_code"`
	Prefecture string   `json:"prefecture"`
	County     string   `json:"county"`
	City       string   `json:"city"`
	Ward       string   `json:"ward"`
	Latitude   *float64 `json:"lat"`
	Longitude  *float64 `json:"lon"`
}

// Name is the city name as written in an address: county, city and ward joined.
func (c CityRow) Name() string {
	return c.County + c.City + c.Ward
}

// TownRow is an ōaza/chō (plus optional chōme and koaza) row.
type TownRow struct {
	LgCode      string   `json:"lg_code"`
	TownID      string   `json:"town_id"`
	Name        string   `json:"name"`
	Koaza       string   `json:"koaza"`
	Latitude    *float64 `json:"lat"`
	Longitude   *float64 `json:"lon"`
	RsdtAddrFlg bool     `json:"rsdt_addr_flg"`
}

// BlockRow is a gaiku (residential-display block) row.
type BlockRow struct {
	BlockNum  string   `json:"block_num"`
	BlockID   string   `json:"block_id"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
}

// ResidentialRow is a residential number row within a block.
type ResidentialRow struct {
	Addr1     string   `json:"addr1"`
	Addr1ID   string   `json:"addr1_id"`
	Addr2     string   `json:"addr2"`
	Addr2ID   string   `json:"addr2_id"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
}

// ParcelRow is a cadastral parcel (chiban) row.
type ParcelRow struct {
	PrcNum1   string   `json:"prc_num1"`
	PrcNum2   string   `json:"prc_num2"`
	PrcNum3   string   `json:"prc_num3"`
	PrcID     string   `json:"prc_id"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
}

// Float returns a pointer to v, for building rows with coordinates.
func Float(v float64) *float64 {
	return &v
}

// Place is a town together with its city, as returned by reverse geocoding.
type Place struct {
	City CityRow `json:"city"`
	Town TownRow `json:"town"`
}
