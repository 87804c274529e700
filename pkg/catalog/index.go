package catalog

import (
	"strings"

	"github.com/actorgraph/actorgraph/pkg/names"
)

// singleTokenSafe lists well-known figures whose bare last name is distinct
// enough to register as a lookup key on its own. Surnames shared by several
// catalog entries are never registered even when listed here.
var singleTokenSafe = map[string]struct{}{
	"putin":      {},
	"zelensky":   {},
	"biden":      {},
	"trump":      {},
	"macron":     {},
	"scholz":     {},
	"erdogan":    {},
	"netanyahu":  {},
	"modi":       {},
	"orban":      {},
	"lukashenko": {},
}

// minFuzzyLen guards the substring fallback: both sides of a containment
// match must be at least this long. Three characters is enough to let
// acronyms like "EU" fail closed while "NATO" still matches "NATO allies".
const minFuzzyLen = 3

// Index is the multi-key lookup table over the reference catalog. Every
// normalized spelling variant of every entry maps to its record. The scan
// order for fuzzy lookups is the catalog's insertion order, which makes
// ties deterministic but not necessarily best-match.
type Index struct {
	records []*EntityRecord
	table   map[string]*EntityRecord
	keys    []string
}

func newIndex() *Index {
	return &Index{
		table: make(map[string]*EntityRecord),
	}
}

// Len returns the number of catalog entries behind the index.
func (idx *Index) Len() int { return len(idx.records) }

// Records returns the loaded entries in catalog order. The slice is shared;
// callers must not mutate it.
func (idx *Index) Records() []*EntityRecord { return idx.records }

func (idx *Index) add(rec *EntityRecord) {
	idx.records = append(idx.records, rec)

	idx.register(names.Key(rec.ID), rec)
	idx.register(names.Key(names.StripHonorific(rec.ID)), rec)

	for _, alt := range rec.AlternateNames {
		idx.register(names.Key(alt), rec)
		idx.register(names.Key(names.StripHonorific(alt)), rec)
	}

	for _, variant := range titleVariants(rec) {
		idx.register(variant, rec)
	}
}

// registerLastNames runs after every record is added so surname collisions
// across the whole catalog are visible. A bare last token becomes a key
// only when no other entry shares it and it is on the single-token-safe
// shortlist.
func (idx *Index) registerLastNames() {
	counts := make(map[string]int)
	for _, rec := range idx.records {
		counts[lastToken(rec.ID)]++
	}
	for _, rec := range idx.records {
		token := lastToken(rec.ID)
		if token == "" || counts[token] != 1 {
			continue
		}
		if _, safe := singleTokenSafe[token]; !safe {
			continue
		}
		idx.register(token, rec)
	}
}

// register adds a key for rec. The first registration of a key wins;
// later records never overwrite it.
func (idx *Index) register(key string, rec *EntityRecord) {
	if key == "" {
		return
	}
	if _, exists := idx.table[key]; exists {
		return
	}
	idx.table[key] = rec
	idx.keys = append(idx.keys, key)
}

// Find resolves a raw name against the index. Lookup tries the
// honorific-stripped key and the raw key as direct hits, then scans the
// registered keys for equality after stripping honorifics from both sides,
// then for substring containment in either direction with the minimum
// length guard. The substring fallback is approximate matching by design;
// known false positives are documented in the package tests.
func (idx *Index) Find(name string) (*EntityRecord, bool) {
	if strings.TrimSpace(name) == "" {
		return nil, false
	}

	stripped := names.Key(names.StripHonorific(name))
	if rec, ok := idx.table[stripped]; ok {
		return rec, true
	}
	raw := names.Key(name)
	if rec, ok := idx.table[raw]; ok {
		return rec, true
	}

	for _, key := range idx.keys {
		if names.Key(names.StripHonorific(key)) == stripped {
			return idx.table[key], true
		}
	}

	if len(stripped) >= minFuzzyLen {
		for _, key := range idx.keys {
			if len(key) < minFuzzyLen {
				continue
			}
			if strings.Contains(key, stripped) || strings.Contains(stripped, key) {
				return idx.table[key], true
			}
		}
	}

	return nil, false
}

// titleVariants synthesizes title+name lookup keys from keywords in the
// record's role, so "Sen. Smith" resolves to the entry whose id is just
// "John Smith".
func titleVariants(rec *EntityRecord) []string {
	role := strings.ToLower(rec.Role)
	base := names.Key(names.StripHonorific(rec.ID))
	last := lastToken(rec.ID)
	if base == "" {
		return nil
	}

	var variants []string
	addFor := func(prefixes ...string) {
		for _, p := range prefixes {
			variants = append(variants, p+" "+base)
			if last != "" && last != base {
				variants = append(variants, p+" "+last)
			}
		}
	}

	switch {
	case strings.Contains(role, "senator"):
		addFor("sen.", "senator")
	case strings.Contains(role, "representative"):
		addFor("rep.", "representative")
	case strings.Contains(role, "governor"):
		addFor("gov.", "governor")
	case strings.Contains(role, "prime minister"):
		addFor("prime minister", "pm")
	case strings.Contains(role, "president"):
		addFor("president", "pres.")
	case strings.Contains(role, "secretary"):
		addFor("secretary", "sec.")
	case strings.Contains(role, "minister"):
		addFor("minister")
	}

	return variants
}

func lastToken(name string) string {
	fields := strings.Fields(names.Key(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
