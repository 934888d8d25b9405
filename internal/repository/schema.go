package repository

// Table describes one dataset table as loaded by the importer.
type Table struct {
	Name    string
	Columns []string
}

// Tables lists the dataset tables in load order.
var Tables = []Table{
	{Name: "city", Columns: []string{"lg_code", "pref_name", "county_name", "city_name", "od_city_name", "rep_lat", "rep_lon"}},
	{Name: "town", Columns: []string{"lg_code", "town_id", "oaza_cho", "chome", "koaza", "rsdt_addr_flg", "rep_lat", "rep_lon"}},
	{Name: "rsdtdsp_blk", Columns: []string{"lg_code", "town_id", "blk_id", "blk_num", "rep_lat", "rep_lon"}},
	{Name: "rsdtdsp_rsdt", Columns: []string{"lg_code", "town_id", "blk_id", "rsdt_id", "rsdt2_id", "rsdt_num", "rsdt_num2", "rep_lat", "rep_lon"}},
	{Name: "parcel", Columns: []string{"lg_code", "town_id", "prc_id", "prc_num1", "prc_num2", "prc_num3", "rep_lat", "rep_lon"}},
}

// schema is valid for both PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS city (
		lg_code TEXT PRIMARY KEY,
		pref_name TEXT NOT NULL,
		county_name TEXT NOT NULL DEFAULT '',
		city_name TEXT NOT NULL DEFAULT '',
		od_city_name TEXT NOT NULL DEFAULT '',
		rep_lat DOUBLE PRECISION,
		rep_lon DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS town (
		lg_code TEXT NOT NULL,
		town_id TEXT NOT NULL,
		oaza_cho TEXT NOT NULL DEFAULT '',
		chome TEXT NOT NULL DEFAULT '',
		koaza TEXT NOT NULL DEFAULT '',
		rsdt_addr_flg INTEGER NOT NULL DEFAULT 0,
		rep_lat DOUBLE PRECISION,
		rep_lon DOUBLE PRECISION,
		PRIMARY KEY (lg_code, town_id)
	)`,
	`CREATE TABLE IF NOT EXISTS rsdtdsp_blk (
		lg_code TEXT NOT NULL,
		town_id TEXT NOT NULL,
		blk_id TEXT NOT NULL,
		blk_num TEXT NOT NULL,
		rep_lat DOUBLE PRECISION,
		rep_lon DOUBLE PRECISION,
		PRIMARY KEY (lg_code, town_id, blk_id)
	)`,
	`CREATE TABLE IF NOT EXISTS rsdtdsp_rsdt (
		lg_code TEXT NOT NULL,
		town_id TEXT NOT NULL,
		blk_id TEXT NOT NULL,
		rsdt_id TEXT NOT NULL,
		rsdt2_id TEXT NOT NULL DEFAULT '',
		rsdt_num TEXT NOT NULL,
		rsdt_num2 TEXT NOT NULL DEFAULT '',
		rep_lat DOUBLE PRECISION,
		rep_lon DOUBLE PRECISION,
		PRIMARY KEY (lg_code, town_id, blk_id, rsdt_id, rsdt2_id)
	)`,
	`CREATE TABLE IF NOT EXISTS parcel (
		lg_code TEXT NOT NULL,
		town_id TEXT NOT NULL,
		prc_id TEXT NOT NULL,
		prc_num1 TEXT NOT NULL,
		prc_num2 TEXT NOT NULL DEFAULT '',
		prc_num3 TEXT NOT NULL DEFAULT '',
		rep_lat DOUBLE PRECISION,
		rep_lon DOUBLE PRECISION,
		PRIMARY KEY (lg_code, town_id, prc_id)
	)`,
	`CREATE INDEX IF NOT EXISTS city_name_idx ON city (pref_name, city_name)`,
	`CREATE INDEX IF NOT EXISTS town_location_idx ON town (rep_lat, rep_lon)`,
}

// IsTable reports whether name is one of the dataset tables.
func IsTable(name string) bool {
	for _, t := range Tables {
		if t.Name == name {
			return true
		}
	}
	return false
}
