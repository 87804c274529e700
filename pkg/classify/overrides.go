package classify

import "github.com/actorgraph/actorgraph/pkg/common"

// manualOverrides pins the classification of a small set of known-ambiguous
// names that the external lookup routinely misreads, mostly country names
// that double as common nouns or person names. Keys are normalized
// lower-case name keys; hits never reach the cache or the external lookup.
var manualOverrides = map[string]common.Category{
	"israel":  common.CategoryCountry,
	"georgia": common.CategoryCountry,
	"turkey":  common.CategoryCountry,
	"jordan":  common.CategoryCountry,
	"chad":    common.CategoryCountry,
	"china":   common.CategoryCountry,
	"us":      common.CategoryCountry,
	"u.s.":    common.CategoryCountry,
	"usa":     common.CategoryCountry,
	"uk":      common.CategoryCountry,
	"u.k.":    common.CategoryCountry,

	"eu":             common.CategoryPoliticalOrganization,
	"european union": common.CategoryPoliticalOrganization,

	"un":             common.CategoryOrganization,
	"united nations": common.CategoryOrganization,
	"nato":           common.CategoryOrganization,

	"congress": common.CategoryLegislativeBranch,
	"senate":   common.CategoryLegislativeBranch,
	"house":    common.CategoryLegislativeBranch,

	"white house": common.CategoryPublicOffice,
	"kremlin":     common.CategoryPublicOffice,
	"pentagon":    common.CategoryPublicOffice,
}
