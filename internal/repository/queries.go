package repository

import (
	"strconv"
	"strings"
)

// Queries are written with ? placeholders and rebound for PostgreSQL.

const sqlListCities = `
	SELECT
		lg_code,
		pref_name,
		county_name,
		city_name,
		od_city_name,
		rep_lat,
		rep_lon
	FROM city
	ORDER BY lg_code
`

const sqlListTowns = `
	SELECT
		t.lg_code,
		t.town_id,
		t.oaza_cho || t.chome AS name,
		t.koaza,
		t.rep_lat,
		t.rep_lon,
		(t.rsdt_addr_flg = 1) AS rsdt_addr_flg
	FROM town t
	JOIN city c ON c.lg_code = t.lg_code
	WHERE c.pref_name = ?
		AND c.county_name || c.city_name || c.od_city_name = ?
		AND t.oaza_cho || t.chome <> ''
	ORDER BY length(t.oaza_cho || t.chome) DESC, t.town_id ASC
`

const sqlListKoazas = `
	SELECT
		lg_code,
		town_id,
		oaza_cho || chome AS name,
		koaza,
		rep_lat,
		rep_lon,
		(rsdt_addr_flg = 1) AS rsdt_addr_flg
	FROM town
	WHERE lg_code = ?
		AND substr(town_id, 1, 4) = ?
		AND koaza <> ''
	ORDER BY town_id
`

const sqlListBlocks = `
	SELECT
		blk_num,
		blk_id,
		rep_lat,
		rep_lon
	FROM rsdtdsp_blk
	WHERE lg_code = ? AND town_id = ?
	ORDER BY blk_id
`

const sqlListResidentials = `
	SELECT
		rsdt_num,
		rsdt_id,
		rsdt_num2,
		rsdt2_id,
		rep_lat,
		rep_lon
	FROM rsdtdsp_rsdt
	WHERE lg_code = ? AND town_id = ? AND blk_id = ?
	ORDER BY rsdt_id, rsdt2_id
`

const sqlListParcels = `
	SELECT
		prc_num1,
		prc_num2,
		prc_num3,
		prc_id,
		rep_lat,
		rep_lon
	FROM parcel
	WHERE lg_code = ? AND town_id = ?
	ORDER BY prc_id
`

// Squared-degree distance is enough to rank nearby towns and needs no
// spatial extension.
const sqlNearestTown = `
	SELECT
		c.lg_code,
		c.pref_name,
		c.county_name,
		c.city_name,
		c.od_city_name,
		c.rep_lat,
		c.rep_lon,
		t.town_id,
		t.oaza_cho || t.chome AS name,
		t.koaza,
		t.rep_lat,
		t.rep_lon,
		(t.rsdt_addr_flg = 1) AS rsdt_addr_flg
	FROM town t
	JOIN city c ON c.lg_code = t.lg_code
	WHERE t.rep_lat IS NOT NULL AND t.rep_lon IS NOT NULL
	ORDER BY (t.rep_lat - ?) * (t.rep_lat - ?) + (t.rep_lon - ?) * (t.rep_lon - ?), t.town_id
	LIMIT 1
`

// rebind rewrites ? placeholders into PostgreSQL's $n form.
func rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
