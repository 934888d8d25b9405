package models

import (
	"encoding/json"
	"strings"
)

// Query is the matching state of one address line. It is a value type: every
// transition method returns a new Query and leaves the receiver untouched.
// Coordinates are shared by pointer but never written through.
type Query struct {
	Input       string
	TempAddress string

	Prefecture string
	City       string
	LgCode     string

	Town        string
	TownID      string
	Koaza       string
	RsdtAddrFlg bool

	Block   string
	BlockID string

	Addr1   string
	Addr1ID string
	Addr2   string
	Addr2ID string

	PrcNum1 string
	PrcNum2 string
	PrcNum3 string
	PrcID   string

	Latitude  *float64
	Longitude *float64

	MatchLevel MatchLevel
	Other      string
}

// NewQuery starts a Query for input whose normalized form is normalized.
func NewQuery(input, normalized string) Query {
	return Query{
		Input:       input,
		TempAddress: normalized,
	}
}

// TownMatch is what TownResolver hands back on success.
type TownMatch struct {
	LgCode      string
	TownID      string
	Name        string
	Koaza       string
	Latitude    *float64
	Longitude   *float64
	RsdtAddrFlg bool
	TempAddress string
}

// WithTempAddress replaces the unconsumed remainder.
func (q Query) WithTempAddress(rest string) Query {
	q.TempAddress = rest
	return q
}

// WithPrefecture records a prefecture-only match.
func (q Query) WithPrefecture(prefecture, rest string) Query {
	q.Prefecture = prefecture
	q.TempAddress = rest
	q.MatchLevel = raise(q.MatchLevel, LevelPrefecture)
	return q
}

// WithCity records a municipality match.
func (q Query) WithCity(c CityRow, rest string) Query {
	q.Prefecture = c.Prefecture
	q.City = c.Name()
	q.LgCode = c.LgCode
	q.TempAddress = rest
	q = q.refine(c.Latitude, c.Longitude)
	q.MatchLevel = raise(q.MatchLevel, LevelCity)
	return q
}

// WithTown records a town (ōaza/chō) match.
func (q Query) WithTown(t TownMatch) Query {
	q.Town = t.Name
	q.TownID = t.TownID
	q.LgCode = t.LgCode
	q.Koaza = t.Koaza
	q.RsdtAddrFlg = t.RsdtAddrFlg
	q.TempAddress = t.TempAddress
	q = q.refine(t.Latitude, t.Longitude)
	q.MatchLevel = raise(q.MatchLevel, LevelTownLocal)
	return q
}

// WithBlock records a residential-display block match.
func (q Query) WithBlock(b BlockRow, rest string) Query {
	q.Block = b.BlockNum
	q.BlockID = b.BlockID
	q.TempAddress = rest
	q = q.refine(b.Latitude, b.Longitude)
	q.MatchLevel = raise(q.MatchLevel, LevelResidentialBlock)
	return q
}

// WithResidential records a residential number (and optional sub-number).
func (q Query) WithResidential(r ResidentialRow, rest string) Query {
	q.Addr1 = r.Addr1
	q.Addr1ID = r.Addr1ID
	q.Addr2 = r.Addr2
	q.Addr2ID = r.Addr2ID
	q.TempAddress = rest
	q = q.refine(r.Latitude, r.Longitude)
	q.MatchLevel = raise(q.MatchLevel, LevelResidentialDetail)
	return q
}

// WithParcel records a parcel number match.
func (q Query) WithParcel(p ParcelRow, rest string) Query {
	q.PrcNum1 = p.PrcNum1
	q.PrcNum2 = p.PrcNum2
	q.PrcNum3 = p.PrcNum3
	q.PrcID = p.PrcID
	q.TempAddress = rest
	q = q.refine(p.Latitude, p.Longitude)
	q.MatchLevel = raise(q.MatchLevel, LevelParcel)
	return q
}

// WithOther moves the leftover text into Other.
func (q Query) WithOther(other string) Query {
	q.Other = other
	q.TempAddress = ""
	return q
}

// refine replaces the representative point only when the new source has one.
func (q Query) refine(lat, lon *float64) Query {
	if lat == nil || lon == nil {
		return q
	}
	q.Latitude = lat
	q.Longitude = lon
	return q
}

func raise(current, next MatchLevel) MatchLevel {
	if current.Code() > next.Code() {
		return current
	}
	return next
}

// Validate checks the hierarchical invariants of the identifier fields.
func (q Query) Validate() error {
	switch {
	case q.TownID != "" && q.LgCode == "":
		return InvariantError("validate", "town_id %q without lg_code", q.TownID)
	case q.BlockID != "" && q.TownID == "":
		return InvariantError("validate", "block_id %q without town_id", q.BlockID)
	case (q.Addr1ID != "" || q.Addr2ID != "") && q.BlockID == "":
		return InvariantError("validate", "addr1_id %q without block_id", q.Addr1ID)
	case q.PrcID != "" && q.TownID == "":
		return InvariantError("validate", "prc_id %q without town_id", q.PrcID)
	}
	return nil
}

// Formatted renders the matched portion followed by the leftover text.
func (q Query) Formatted() string {
	var b strings.Builder
	b.WriteString(q.Prefecture)
	b.WriteString(q.City)
	b.WriteString(q.Town)
	if q.Koaza != "" && q.MatchLevel.AtLeast(LevelTownLocal) {
		b.WriteString(q.Koaza)
	}
	switch q.MatchLevel {
	case LevelResidentialBlock, LevelResidentialDetail:
		b.WriteString(q.Block)
		if q.MatchLevel == LevelResidentialDetail {
			b.WriteString("-" + q.Addr1)
			if q.Addr2 != "" {
				b.WriteString("-" + q.Addr2)
			}
		}
	case LevelParcel:
		b.WriteString(q.PrcNum1)
		for _, n := range []string{q.PrcNum2, q.PrcNum3} {
			if n == "" {
				break
			}
			b.WriteString("-" + n)
		}
	}
	b.WriteString(q.Other)
	b.WriteString(q.TempAddress)
	return b.String()
}

type queryJSON struct {
	Input      string     `json:"input"`
	Output     string     `json:"output"`
	Other      string     `json:"other"`
	MatchLevel MatchLevel `json:"match_level"`
	Level      int        `json:"level"`
	Latitude   *float64   `json:"lat"`
	Longitude  *float64   `json:"lon"`
	Prefecture *string    `json:"prefecture"`
	City       *string    `json:"city"`
	LgCode     *string    `json:"lg_code"`
	Town       *string    `json:"town"`
	TownID     *string    `json:"town_id"`
	Koaza      *string    `json:"koaza"`
	Block      *string    `json:"block"`
	BlockID    *string    `json:"block_id"`
	Addr1      *string    `json:"addr1"`
	Addr1ID    *string    `json:"addr1_id"`
	Addr2      *string    `json:"addr2"`
	Addr2ID    *string    `json:"addr2_id"`
	PrcNum1    *string    `json:"prc_num1"`
	PrcNum2    *string    `json:"prc_num2"`
	PrcNum3    *string    `json:"prc_num3"`
	PrcID      *string    `json:"prc_id"`
}

// MarshalJSON writes fields the match level never reached as null, so an
// unset field is distinguishable from a reached-but-empty one.
func (q Query) MarshalJSON() ([]byte, error) {
	lvl := q.MatchLevel
	out := queryJSON{
		Input:      q.Input,
		Output:     q.Formatted(),
		Other:      q.Other + q.TempAddress,
		MatchLevel: lvl,
		Level:      lvl.Code(),
		Latitude:   q.Latitude,
		Longitude:  q.Longitude,
		Prefecture: optional(q.Prefecture, lvl != LevelUnmatched),
		City:       optional(q.City, lvl.AtLeast(LevelCity)),
		LgCode:     optional(q.LgCode, lvl.AtLeast(LevelCity)),
		Town:       optional(q.Town, lvl.AtLeast(LevelTownLocal)),
		TownID:     optional(q.TownID, lvl.AtLeast(LevelTownLocal)),
		Koaza:      optional(q.Koaza, lvl.AtLeast(LevelTownLocal)),
	}
	if lvl == LevelResidentialBlock || lvl == LevelResidentialDetail {
		out.Block = &q.Block
		out.BlockID = &q.BlockID
	}
	if lvl == LevelResidentialDetail {
		out.Addr1, out.Addr1ID = &q.Addr1, &q.Addr1ID
		out.Addr2, out.Addr2ID = &q.Addr2, &q.Addr2ID
	}
	if lvl == LevelParcel {
		out.PrcNum1, out.PrcNum2, out.PrcNum3 = &q.PrcNum1, &q.PrcNum2, &q.PrcNum3
		out.PrcID = &q.PrcID
	}
	return json.Marshal(out)
}

func optional(v string, reached bool) *string {
	if !reached {
		return nil
	}
	return &v
}
