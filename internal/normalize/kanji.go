package normalize

import (
	"strconv"
	"strings"
)

// KanjiNumerals lists every rune KanjiToNumber understands.
const KanjiNumerals = "〇零一壱二弐三参四五六七八九十百千"

var kanjiDigits = map[rune]int{
	'〇': 0, '零': 0,
	'一': 1, '壱': 1,
	'二': 2, '弐': 2,
	'三': 3, '参': 3,
	'四': 4,
	'五': 5,
	'六': 6,
	'七': 7,
	'八': 8,
	'九': 9,
}

var kanjiUnits = map[rune]int{
	'十': 10,
	'百': 100,
	'千': 1000,
}

// KanjiToNumber converts a run of kanji numerals to an integer. Both the
// positional form ("二十三") and the digit-by-digit form ("一〇三") are
// accepted.
func KanjiToNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if !strings.ContainsAny(s, "十百千") {
		n := 0
		for _, r := range s {
			d, ok := kanjiDigits[r]
			if !ok {
				return 0, false
			}
			n = n*10 + d
		}
		return n, true
	}

	total, cur := 0, -1
	for _, r := range s {
		if d, ok := kanjiDigits[r]; ok {
			if cur > 0 {
				// "二三十" is not a numeral.
				return 0, false
			}
			cur = d
			continue
		}
		unit, ok := kanjiUnits[r]
		if !ok {
			return 0, false
		}
		if cur < 0 {
			cur = 1
		}
		total += cur * unit
		cur = -1
	}
	if cur > 0 {
		total += cur
	}
	return total, true
}

// KanjiToArabic is KanjiToNumber rendered as a decimal string; unparsable
// input is returned unchanged.
func KanjiToArabic(s string) string {
	n, ok := KanjiToNumber(s)
	if !ok {
		return s
	}
	return strconv.Itoa(n)
}

// IsKanjiNumeral reports whether every rune of s is a kanji numeral.
func IsKanjiNumeral(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(KanjiNumerals, r) {
			return false
		}
	}
	return true
}
