package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Dash is the canonical dash every dash-like symbol is unified to.
const Dash = "-"

// DashSymbols are the dash variants seen in address data. The prolonged sound
// mark is excluded because it is part of katakana names.
const DashSymbols = "-‐‑‒–—―−－﹣"

// CounterSuffixes follow a number that the normalizer converts to arabic digits.
var CounterSuffixes = []string{"丁目", "番地", "番", "号", "地割", "線", "条", "-"}

var (
	reSpaces       = regexp.MustCompile(`\s+`)
	reDashes       = regexp.MustCompile(`[‐‑‒–—―−－﹣]+`)
	reChoonAfterNo = regexp.MustCompile(`([0-9])[ーｰ]+`)
	reKanjiCounted = regexp.MustCompile(`([` + KanjiNumerals + `]+)(` + strings.Join(CounterSuffixes, "|") + `)`)
	reBanchiJoin   = regexp.MustCompile(`([0-9]+)(?:番地|番|の)([0-9])`)
	reGoSuffix     = regexp.MustCompile(`([0-9]+)号`)
	reBanchiSuffix = regexp.MustCompile(`([0-9]+)番地`)
)

// Normalizer turns raw address text into the tempAddress the resolvers
// consume. It is stateless and safe for concurrent use.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize folds width variants, unifies dashes, converts counted kanji
// numerals to arabic digits and rewrites 番地/番/号 into dash notation. A
// leading 大字 is left for TownResolver to trim.
func (n *Normalizer) Normalize(address string) string {
	s := norm.NFC.String(address)
	s = width.Fold.String(s)
	s = strings.ReplaceAll(s, "　", " ")
	s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))

	s = reDashes.ReplaceAllString(s, Dash)
	s = reChoonAfterNo.ReplaceAllString(s, "$1"+Dash)

	s = reKanjiCounted.ReplaceAllStringFunc(s, func(m string) string {
		sub := reKanjiCounted.FindStringSubmatch(m)
		return KanjiToArabic(sub[1]) + sub[2]
	})

	// Applied twice so "1番地3号" and "1の3の5" both collapse fully.
	for i := 0; i < 2; i++ {
		s = reBanchiJoin.ReplaceAllString(s, "$1"+Dash+"$2")
	}
	s = reGoSuffix.ReplaceAllString(s, "$1")
	s = reBanchiSuffix.ReplaceAllString(s, "$1")
	return s
}

// IsCounted reports whether rest starts with a counter suffix.
func IsCounted(rest string) bool {
	for _, suffix := range CounterSuffixes {
		if strings.HasPrefix(rest, suffix) {
			return true
		}
	}
	return false
}
