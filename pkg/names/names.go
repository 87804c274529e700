// Package names canonicalizes raw entity name strings into the matching
// keys used across the reference index, the classification resolver and the
// graph builders. Two raw names refer to the same entity exactly when their
// normalized forms are equal.
package names

import (
	"strings"
)

// pluralPreserve lists proper nouns whose correct form ends in a plural
// suffix and must never be singularized. Matching is case-insensitive on
// the full normalized name.
var pluralPreserve = map[string]struct{}{
	"united states":                   {},
	"the united states":               {},
	"united nations":                  {},
	"the united nations":              {},
	"united arab emirates":            {},
	"netherlands":                     {},
	"the netherlands":                 {},
	"philippines":                     {},
	"the philippines":                 {},
	"maldives":                        {},
	"seychelles":                      {},
	"bahamas":                         {},
	"the bahamas":                     {},
	"barbados":                        {},
	"honduras":                        {},
	"cyprus":                          {},
	"belarus":                         {},
	"wales":                           {},
	"doctors without borders":         {},
	"reporters without borders":       {},
	"house of representatives":        {},
	"organization of american states": {},
}

// pluralSuffixes maps pluralized organizational-role words to their
// singular form. Only whole trailing words are rewritten.
var pluralSuffixes = map[string]string{
	"governments": "government",
	"ministers":   "minister",
	"ministries":  "ministry",
	"parties":     "party",
	"companies":   "company",
	"agencies":    "agency",
	"forces":      "force",
	"rebels":      "rebel",
}

// honorifics are leading title tokens stripped before lookups. Longer
// prefixes are listed first so "prime minister" wins over "minister".
var honorifics = []string{
	"prime minister",
	"vice president",
	"president-elect",
	"secretary of state",
	"president",
	"pres.",
	"senator",
	"sen.",
	"representative",
	"rep.",
	"governor",
	"gov.",
	"secretary",
	"sec.",
	"minister",
	"chancellor",
	"ambassador",
	"general",
	"gen.",
	"dr.",
	"mr.",
	"mrs.",
	"ms.",
	"king",
	"queen",
	"pope",
}

// Normalize converts a raw name into its canonical matching key: trims
// surrounding whitespace, strips a trailing possessive, singularizes known
// pluralizable role words unless the name is on the preservation list, and
// collapses internal whitespace. Empty or whitespace-only input is returned
// unchanged; callers treat that as "no entity".
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return raw
	}

	name = stripPossessive(name)

	if _, preserved := pluralPreserve[strings.ToLower(name)]; !preserved {
		name = singularizeSuffix(name)
	}

	return strings.Join(strings.Fields(name), " ")
}

// StripHonorific removes one leading honorific or title prefix from the
// name, case-insensitively. The remainder is trimmed; if nothing follows
// the title the input is returned unchanged, so bare titles stay intact.
func StripHonorific(name string) string {
	lower := strings.ToLower(name)
	for _, h := range honorifics {
		if !strings.HasPrefix(lower, h) {
			continue
		}
		rest := name[len(h):]
		if rest == "" || !strings.HasPrefix(rest, " ") {
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		return rest
	}
	return name
}

// Key returns the lower-cased canonical lookup key for a raw name.
func Key(raw string) string {
	return strings.ToLower(Normalize(raw))
}

func stripPossessive(name string) string {
	for _, suffix := range []string{"'s", "’s"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(name, suffix))
		}
	}
	return name
}

func singularizeSuffix(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	last := fields[len(fields)-1]
	singular, ok := pluralSuffixes[strings.ToLower(last)]
	if !ok {
		return name
	}
	if isUpperWord(last) {
		singular = strings.ToUpper(singular)
	} else if isTitleWord(last) {
		singular = strings.ToUpper(singular[:1]) + singular[1:]
	}
	fields[len(fields)-1] = singular
	return strings.Join(fields, " ")
}

func isUpperWord(s string) bool {
	return s == strings.ToUpper(s) && s != strings.ToLower(s)
}

func isTitleWord(s string) bool {
	return len(s) > 0 && s[:1] == strings.ToUpper(s[:1])
}
