package matcher

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"abr-geocoder/internal/models"
	"abr-geocoder/internal/normalize"
)

// DashClass matches one canonical or variant dash.
const DashClass = `[` + normalize.DashSymbols + `]`

const (
	oazaPrefix = "大字"
	azaPrefix  = "字"
	townSuffix = "町"
)

// Variant spellings that appear interchangeably in town names.
var variantClasses = map[rune]string{
	'ヶ': `[ヶケヵが]`,
	'ケ': `[ヶケヵが]`,
	'ヵ': `[ヶケヵが]`,
	'が': `[ヶケヵが]`,
	'ノ': `[ノの之]`,
	'の': `[ノの之]`,
	'之': `[ノの之]`,
}

// WildcardHook may rewrite a generated pattern source. Returning false drops
// the candidate.
type WildcardHook func(pattern string) (string, bool)

// Generator builds anchored search patterns from administrative names.
type Generator struct {
	hook WildcardHook
}

// Option configures a Generator.
type Option func(*Generator)

// WithWildcardHook installs a hook called once per generated pattern.
func WithWildcardHook(hook WildcardHook) Option {
	return func(g *Generator) {
		g.hook = hook
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Pattern pairs a candidate row with the compiled pattern for one of its
// names. A row yields more than one Pattern when it has a 町-less alias.
type Pattern[T any] struct {
	Row      T
	Name     string
	Original string
	Source   string

	anchored *regexp.Regexp
	loose    *regexp.Regexp
	once     sync.Once
}

// MatchPrefix matches at the start of text and returns the consumed byte length.
func (p *Pattern[T]) MatchPrefix(text string) (int, bool) {
	loc := p.anchored.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

// MatchAnywhere allows arbitrary text before the name and returns the byte
// length up to the end of the name.
func (p *Pattern[T]) MatchAnywhere(text string) (int, bool) {
	p.once.Do(func() {
		p.loose = regexp.MustCompile(`^.*(?:` + p.Source + `)`)
	})
	loc := p.loose.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

// Build produces patterns for rows, longest name first. Rows are expected in
// their tie-break order; equal-length names keep it. When aliases is set, a
// 町-less alias is emitted for names where dropping 町 is unambiguous.
func Build[T any](g *Generator, rows []T, nameOf func(T) string, aliases bool) ([]*Pattern[T], error) {
	type candidate struct {
		row      T
		name     string
		original string
	}

	existing := make(map[string]bool, len(rows))
	for _, row := range rows {
		existing[nameOf(row)] = true
	}

	candidates := make([]candidate, 0, len(rows))
	for _, row := range rows {
		name := nameOf(row)
		if name == "" {
			continue
		}
		candidates = append(candidates, candidate{row: row, name: name, original: name})
		if !aliases {
			continue
		}
		if alias, ok := townAlias(name, existing); ok {
			candidates = append(candidates, candidate{row: row, name: alias, original: name})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return sortLength(candidates[i].name) > sortLength(candidates[j].name)
	})

	patterns := make([]*Pattern[T], 0, len(candidates))
	for _, c := range candidates {
		src := ToPattern(c.name)
		if g.hook != nil {
			var ok bool
			if src, ok = g.hook(src); !ok {
				continue
			}
		}
		re, err := regexp.Compile(`^(?:` + src + `)`)
		if err != nil {
			return nil, models.InvariantError("build pattern", "name %q: %v", c.name, err)
		}
		patterns = append(patterns, &Pattern[T]{
			Row:      c.row,
			Name:     c.name,
			Original: c.original,
			Source:   src,
			anchored: re,
		})
	}
	return patterns, nil
}

// FindPrefix returns the first pattern matching at the start of text.
func FindPrefix[T any](patterns []*Pattern[T], text string) (*Pattern[T], int, bool) {
	for _, p := range patterns {
		if n, ok := p.MatchPrefix(text); ok {
			return p, n, true
		}
	}
	return nil, 0, false
}

// FindAnywhere is FindPrefix with a free-text lead-in allowed before the name.
func FindAnywhere[T any](patterns []*Pattern[T], text string) (*Pattern[T], int, bool) {
	for _, p := range patterns {
		if n, ok := p.MatchAnywhere(text); ok {
			return p, n, true
		}
	}
	return nil, 0, false
}

// townAlias strips 町 (never at position 0) unless the result collides with
// another row, with a 大字 row, or leaves a bare numeral before 町.
func townAlias(name string, existing map[string]bool) (string, bool) {
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return "", false
	}
	rest := name[size:]
	if !strings.Contains(rest, townSuffix) {
		return "", false
	}
	if numeral, _, _ := strings.Cut(name, townSuffix); normalize.IsKanjiNumeral(numeral) {
		return "", false
	}
	alias := string(first) + strings.ReplaceAll(rest, townSuffix, "")
	if alias == name || existing[alias] || existing[oazaPrefix+alias] {
		return "", false
	}
	return alias, true
}

// sortLength counts runes, treating a leading 大字/字 as two runes shorter.
func sortLength(name string) int {
	n := utf8.RuneCountInString(name)
	if strings.HasPrefix(name, oazaPrefix) || strings.HasPrefix(name, azaPrefix) {
		n -= 2
	}
	return n
}

// ToPattern converts an administrative name into an unanchored regular
// expression source. Literals are escaped, dash runs become DashClass+,
// counted kanji numerals also accept arabic digits and an optional
// 大字/字 prefix is accepted in either form.
func ToPattern(name string) string {
	var b strings.Builder
	switch {
	case strings.HasPrefix(name, oazaPrefix):
		name = strings.TrimPrefix(name, oazaPrefix)
		b.WriteString(`(?:大字|字)?`)
	case strings.HasPrefix(name, azaPrefix):
		name = strings.TrimPrefix(name, azaPrefix)
		b.WriteString(`(?:大字|字)?`)
	}

	runes := []rune(name)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case strings.ContainsRune(normalize.DashSymbols, r):
			for i < len(runes) && strings.ContainsRune(normalize.DashSymbols, runes[i]) {
				i++
			}
			b.WriteString(DashClass + `+`)
			continue
		case strings.ContainsRune(normalize.KanjiNumerals, r):
			j := i
			for j < len(runes) && strings.ContainsRune(normalize.KanjiNumerals, runes[j]) {
				j++
			}
			kanji := string(runes[i:j])
			n, ok := normalize.KanjiToNumber(kanji)
			if ok && normalize.IsCounted(string(runes[j:])) {
				b.WriteString(`(?:` + kanji + `|` + strconv.Itoa(n) + `)`)
			} else {
				b.WriteString(regexp.QuoteMeta(kanji))
			}
			i = j
			continue
		}
		if class, ok := variantClasses[r]; ok {
			b.WriteString(class)
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
		i++
	}
	return b.String()
}
