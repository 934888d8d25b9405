package matcher

import (
	"regexp"
	"strings"
	"unicode"
)

// FuzzyHook returns a WildcardHook that lets ch stand in for any single
// kanji or kana of a name. Patterns whose name already contains ch are
// dropped, so the wildcard never has two meanings. Names reach the hook
// escaped, so ch is looked for in its escaped form and regexp syntax such
// as (?: never triggers the veto.
func FuzzyHook(ch rune) WildcardHook {
	lit := regexp.QuoteMeta(string(ch))
	return func(pattern string) (string, bool) {
		if strings.Contains(pattern, lit) {
			return "", false
		}

		var b strings.Builder
		inClass, escaped := false, false
		for _, r := range pattern {
			switch {
			case escaped:
				escaped = false
				b.WriteRune(r)
			case r == '\\':
				escaped = true
				b.WriteRune(r)
			case inClass && r == ']':
				inClass = false
				b.WriteString(lit)
				b.WriteRune(r)
			case inClass:
				b.WriteRune(r)
			case r == '[':
				inClass = true
				b.WriteRune(r)
			case isNameRune(r):
				b.WriteString(`(?:` + string(r) + `|` + lit + `)`)
			default:
				b.WriteRune(r)
			}
		}
		return b.String(), true
	}
}

func isNameRune(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana)
}
