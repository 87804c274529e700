// Package catalog loads the curated reference set of named entities and
// exposes a multi-key lookup index over every known spelling variant. The
// index is built once at startup and is read-only afterwards, so it can be
// shared by any number of concurrent readers.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/logger"

	"github.com/go-playground/validator"
)

// Connection is a directed relationship declared by a catalog entry.
type Connection struct {
	Target       string `json:"target" validate:"required"`
	Relationship string `json:"relationship"`
}

// EntityRecord is one curated catalog entry. Records are immutable after
// load and owned exclusively by the Index for the process lifetime.
type EntityRecord struct {
	ID             string       `json:"id" validate:"required"`
	AlternateNames []string     `json:"alternate_names"`
	Role           string       `json:"role"`
	StateOrCountry string       `json:"state_or_country"`
	Connections    []Connection `json:"connections"`
	NonUS          bool         `json:"non_us"`
}

var validate = validator.New()

// Load parses a JSON catalog document from r and builds the lookup index.
// Entries without an id are skipped with a warning, never fatal.
func Load(r io.Reader) (*Index, error) {
	var records []EntityRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	idx := newIndex()
	skipped := 0
	for i := range records {
		rec := &records[i]
		if err := validate.Struct(rec); err != nil {
			logger.Warn("[Catalog] Skipping malformed entry", "position", i, "err", err)
			skipped++
			continue
		}
		idx.add(rec)
	}

	idx.registerLastNames()

	logger.Info("[Catalog] Loaded reference catalog",
		"entries", len(idx.records),
		"skipped", skipped,
		"keys", len(idx.keys),
	)

	return idx, nil
}

// LoadFile loads a catalog from the given path.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Category derives the classification of a catalog entry from its curated
// role text. Entries naming an office classify as office holders; party
// and chamber roles map to their political categories; any other role text
// means a person. Entries without role text return unknown so the
// external resolver can classify them instead.
func Category(rec *EntityRecord) common.Category {
	role := strings.ToLower(rec.Role)
	switch {
	case role == "":
		return common.CategoryUnknown
	case containsAny(role, "senate", "parliament", "congress", "duma", "assembly"):
		return common.CategoryLegislativeBranch
	case strings.Contains(role, "party"):
		return common.CategoryPoliticalOrganization
	case containsAny(role, "senator", "representative", "governor", "president",
		"secretary", "minister", "chancellor", "mayor", "ambassador"):
		return common.CategoryPublicOffice
	default:
		return common.CategoryPerson
	}
}

// Classify resolves a name against the index and, on a hit, derives the
// entry's category. It satisfies the classification resolver's Reference
// dependency. Hits on entries without role text report no classification,
// which sends the resolver on to the external lookup.
func (idx *Index) Classify(name string) (common.Category, bool) {
	rec, ok := idx.Find(name)
	if !ok {
		return "", false
	}
	cat := Category(rec)
	if cat == common.CategoryUnknown {
		return "", false
	}
	return cat, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
