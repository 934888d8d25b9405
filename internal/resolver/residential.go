package resolver

import (
	"context"
	"regexp"
	"strings"

	"abr-geocoder/internal/matcher"
	"abr-geocoder/internal/models"
	"abr-geocoder/internal/normalize"

	"github.com/rs/zerolog/log"
)

var (
	reBlockNum    = regexp.MustCompile(`^[1-9][0-9]*`)
	reResidential = regexp.MustCompile(`^-?([1-9][0-9]*)(?:-([1-9][0-9]*))?`)
	reKoazaSplit  = regexp.MustCompile(`^(.*?)第?([0-9` + normalize.KanjiNumerals + `]+)地割$`)
	reChiwari     = regexp.MustCompile(`^第?([1-9][0-9]*)地割`)
)

// ResidentialResolver resolves the residential-display (jūkyo hyōji) part of
// an address: block number, then residential number and sub-number.
type ResidentialResolver struct {
	store        ResidentialStore
	gen          *matcher.Generator
	blocks       memo[map[string]models.BlockRow]
	residentials memo[residentialIndex]
}

// residentialIndex holds a block's residential rows keyed by "addr1" or
// "addr1-addr2" (exact) and by addr1 alone (first row seen).
type residentialIndex struct {
	exact map[string]models.ResidentialRow
	first map[string]models.ResidentialRow
}

// NewResidentialResolver creates a ResidentialResolver. Block tables are
// cached per (lg_code, town_id), residential tables per block.
func NewResidentialResolver(store ResidentialStore, gen *matcher.Generator) *ResidentialResolver {
	return &ResidentialResolver{store: store, gen: gen}
}

// Find matches the leading block number of a town-level Query.
func (r *ResidentialResolver) Find(ctx context.Context, q models.Query) (models.Query, error) {
	if q.TownID == "" || !q.RsdtAddrFlg || q.MatchLevel.AtLeast(models.LevelResidentialBlock) {
		return q, nil
	}
	num := reBlockNum.FindString(q.TempAddress)
	if num == "" {
		return q, nil
	}

	blocks, err := r.blocks.get(cacheKey(q.LgCode, q.TownID), func() (map[string]models.BlockRow, error) {
		rows, err := r.store.ListBlocks(ctx, q.LgCode, q.TownID)
		if err != nil {
			return nil, models.DataStoreError("listBlocks", err)
		}
		index := make(map[string]models.BlockRow, len(rows))
		for _, b := range rows {
			if b.BlockID == "" {
				return nil, models.InvariantError("listBlocks", "block %q of %s/%s has no block_id", b.BlockNum, q.LgCode, q.TownID)
			}
			b.BlockNum = trimZeros(b.BlockNum)
			if _, dup := index[b.BlockNum]; !dup {
				index[b.BlockNum] = b
			}
		}
		return index, nil
	})
	if err != nil {
		return q, err
	}

	b, ok := blocks[num]
	if !ok {
		return q, nil
	}
	return q.WithBlock(b, q.TempAddress[len(num):]), nil
}

// FindDetail matches the residential number (and sub-number) following a
// resolved block.
func (r *ResidentialResolver) FindDetail(ctx context.Context, q models.Query) (models.Query, error) {
	if q.MatchLevel != models.LevelResidentialBlock || q.BlockID == "" {
		return q, nil
	}
	m := reResidential.FindStringSubmatchIndex(q.TempAddress)
	if m == nil {
		return q, nil
	}
	addr1 := q.TempAddress[m[2]:m[3]]
	addr2 := ""
	if m[4] >= 0 {
		addr2 = q.TempAddress[m[4]:m[5]]
	}

	key := cacheKey(q.LgCode, q.TownID, q.BlockID)
	idx, err := r.residentials.get(key, func() (residentialIndex, error) {
		rows, err := r.store.ListResidentials(ctx, q.LgCode, q.TownID, q.BlockID)
		if err != nil {
			return residentialIndex{}, models.DataStoreError("listResidentials", err)
		}
		idx := residentialIndex{
			exact: make(map[string]models.ResidentialRow, len(rows)),
			first: make(map[string]models.ResidentialRow),
		}
		for _, row := range rows {
			row.Addr1 = trimZeros(row.Addr1)
			row.Addr2 = trimZeros(row.Addr2)
			if row.Addr1 == "" || row.Addr1ID == "" {
				return residentialIndex{}, models.InvariantError("listResidentials", "block %s has a row without addr1", q.BlockID)
			}
			k := row.Addr1
			if row.Addr2 != "" {
				k += normalize.Dash + row.Addr2
			}
			if _, dup := idx.exact[k]; !dup {
				idx.exact[k] = row
			}
			if _, dup := idx.first[row.Addr1]; !dup {
				idx.first[row.Addr1] = row
			}
		}
		return idx, nil
	})
	if err != nil {
		return q, err
	}

	if addr2 != "" {
		if row, ok := idx.exact[addr1+normalize.Dash+addr2]; ok {
			return q.WithResidential(row, q.TempAddress[m[1]:]), nil
		}
	}
	if row, ok := idx.exact[addr1]; ok {
		row.Addr2, row.Addr2ID = "", ""
		return q.WithResidential(row, q.TempAddress[m[3]:]), nil
	}
	if row, ok := idx.first[addr1]; ok {
		// Only sub-numbered rows exist; their point belongs to the sub-number.
		return q.WithResidential(models.ResidentialRow{Addr1: row.Addr1, Addr1ID: row.Addr1ID}, q.TempAddress[m[3]:]), nil
	}
	return q, nil
}

type koazaCandidate struct {
	row     models.TownRow
	base    string
	chiwari string
}

// FindForKoaza disambiguates a town-level match by the koaza name that
// follows it, optionally with a chiwari (地割) number. One matching koaza
// resolves directly; several sharing a name need the chiwari number. When a
// block number follows, the block is resolved too.
func (r *ResidentialResolver) FindForKoaza(ctx context.Context, q models.Query) (models.Query, error) {
	if q.TownID == "" || q.MatchLevel != models.LevelTownLocal || q.TempAddress == "" {
		return q, nil
	}

	rows, err := r.store.ListKoazas(ctx, q.LgCode, q.TownID)
	if err != nil {
		return q, models.DataStoreError("listKoazas", err)
	}
	if len(rows) == 0 {
		return q, nil
	}

	candidates := make([]koazaCandidate, 0, len(rows))
	for _, row := range rows {
		c := koazaCandidate{row: row, base: row.Koaza}
		if m := reKoazaSplit.FindStringSubmatch(row.Koaza); m != nil {
			// A bare chiwari name (第二地割) leaves an empty base.
			c.base = m[1]
			c.chiwari = normalize.KanjiToArabic(m[2])
		}
		candidates = append(candidates, c)
	}

	// The full koaza name, chiwari included, identifies one koaza.
	full, err := matcher.Build(r.gen, candidates, func(c koazaCandidate) string { return c.row.Koaza }, false)
	if err != nil {
		return q, err
	}
	if p, n, ok := matcher.FindPrefix(full, q.TempAddress); ok && countKoaza(candidates, p.Row.row.Koaza) == 1 {
		return r.resolveKoaza(ctx, q, p.Row, q.TempAddress[n:])
	}

	if m := reChiwari.FindStringSubmatch(q.TempAddress); m != nil {
		var picked []koazaCandidate
		for _, c := range candidates {
			if c.base == "" && c.chiwari == m[1] {
				picked = append(picked, c)
			}
		}
		if len(picked) == 1 {
			return r.resolveKoaza(ctx, q, picked[0], q.TempAddress[len(m[0]):])
		}
	}

	base, err := matcher.Build(r.gen, candidates, func(c koazaCandidate) string { return c.base }, false)
	if err != nil {
		return q, err
	}
	p, n, ok := matcher.FindPrefix(base, q.TempAddress)
	if !ok {
		return q, nil
	}
	rest := q.TempAddress[n:]

	var shared []koazaCandidate
	towns := make(map[string]bool)
	for _, c := range candidates {
		if c.base == p.Row.base {
			shared = append(shared, c)
			towns[c.row.TownID] = true
		}
	}
	if len(towns) == 1 {
		if m := reChiwari.FindStringSubmatch(rest); m != nil && m[1] == shared[0].chiwari {
			rest = rest[len(m[0]):]
		}
		return r.resolveKoaza(ctx, q, shared[0], rest)
	}

	m := reChiwari.FindStringSubmatch(rest)
	if m == nil {
		return q, nil
	}
	var picked []koazaCandidate
	for _, c := range shared {
		if c.chiwari == m[1] {
			picked = append(picked, c)
		}
	}
	if len(picked) != 1 {
		log.Debug().Str("town_id", q.TownID).Str("koaza", p.Row.base).Int("candidates", len(picked)).Msg("koaza left ambiguous")
		return q, nil
	}
	return r.resolveKoaza(ctx, q, picked[0], rest[len(m[0]):])
}

func (r *ResidentialResolver) resolveKoaza(ctx context.Context, q models.Query, c koazaCandidate, rest string) (models.Query, error) {
	if c.row.TownID == "" {
		return q, models.InvariantError("listKoazas", "koaza %q has no town_id", c.row.Koaza)
	}
	resolved := q.WithTown(models.TownMatch{
		LgCode:      q.LgCode,
		TownID:      c.row.TownID,
		Name:        q.Town,
		Koaza:       c.row.Koaza,
		Latitude:    c.row.Latitude,
		Longitude:   c.row.Longitude,
		RsdtAddrFlg: c.row.RsdtAddrFlg,
		TempAddress: rest,
	})

	blocked, err := r.Find(ctx, resolved)
	if err != nil {
		// A failed block lookup keeps the koaza-level match.
		log.Warn().Err(err).Str("town_id", c.row.TownID).Str("koaza", c.row.Koaza).Msg("block lookup failed after koaza match")
		return resolved, nil
	}
	return blocked, nil
}

func countKoaza(candidates []koazaCandidate, koaza string) int {
	n := 0
	for _, c := range candidates {
		if c.row.Koaza == koaza {
			n++
		}
	}
	return n
}

func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" && s != "" {
		return "0"
	}
	return t
}

// BlockStep exposes Find as a pipeline step.
func (r *ResidentialResolver) BlockStep() Resolver { return Func(r.Find) }

// DetailStep exposes FindDetail as a pipeline step.
func (r *ResidentialResolver) DetailStep() Resolver { return Func(r.FindDetail) }

// KoazaStep exposes FindForKoaza as a pipeline step.
func (r *ResidentialResolver) KoazaStep() Resolver { return Func(r.FindForKoaza) }
