package models

import "fmt"

// MatchLevel classifies how precisely a Query has been resolved.
//
// The residential branch (ResidentialBlock, ResidentialDetail) and the parcel
// branch (Parcel) are parallel refinements of TownLocal; Parcel shares its
// numeric code with ResidentialDetail.
type MatchLevel int

const (
	LevelUnmatched MatchLevel = iota
	LevelPrefecture
	LevelCity
	LevelTownLocal
	LevelResidentialBlock
	LevelResidentialDetail
	LevelParcel
)

var levelNames = [...]string{
	LevelUnmatched:         "UNMATCHED",
	LevelPrefecture:        "PREFECTURE",
	LevelCity:              "CITY",
	LevelTownLocal:         "TOWN_LOCAL",
	LevelResidentialBlock:  "RESIDENTIAL_BLOCK",
	LevelResidentialDetail: "RESIDENTIAL_DETAIL",
	LevelParcel:            "PARCEL",
}

var levelCodes = [...]int{
	LevelUnmatched:         0,
	LevelPrefecture:        1,
	LevelCity:              2,
	LevelTownLocal:         3,
	LevelResidentialBlock:  7,
	LevelResidentialDetail: 8,
	LevelParcel:            8,
}

// Code returns the numeric precision code reported to clients.
func (l MatchLevel) Code() int {
	if l < 0 || int(l) >= len(levelCodes) {
		return 0
	}
	return levelCodes[l]
}

func (l MatchLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("MatchLevel(%d)", int(l))
	}
	return levelNames[l]
}

// AtLeast reports whether l is at least as precise as other.
func (l MatchLevel) AtLeast(other MatchLevel) bool {
	return l.Code() >= other.Code()
}

// MarshalText implements encoding.TextMarshaler.
func (l MatchLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *MatchLevel) UnmarshalText(b []byte) error {
	for i, name := range levelNames {
		if name == string(b) {
			*l = MatchLevel(i)
			return nil
		}
	}
	return fmt.Errorf("models: unknown match level %q", string(b))
}
