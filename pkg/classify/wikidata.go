package classify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/actorgraph/actorgraph/pkg/common"

	"github.com/tidwall/gjson"
)

// classCategories maps Wikidata "instance of" class identifiers onto the
// closed category set. Identifiers missing from this table are ignored.
var classCategories = map[string]common.Category{
	// country
	"Q6256":    common.CategoryCountry, // country
	"Q3624078": common.CategoryCountry, // sovereign state
	"Q7270":    common.CategoryCountry, // republic
	"Q112099":  common.CategoryCountry, // island nation

	// region
	"Q82794":   common.CategoryRegion, // geographic region
	"Q5107":    common.CategoryRegion, // continent
	"Q35657":   common.CategoryRegion, // U.S. state
	"Q107390":  common.CategoryRegion, // federated state
	"Q56061":   common.CategoryRegion, // administrative territorial entity
	"Q1048835": common.CategoryRegion, // political territorial entity

	// legislative branch
	"Q11204": common.CategoryLegislativeBranch, // legislature
	"Q35749": common.CategoryLegislativeBranch, // parliament

	// political organization
	"Q7278":    common.CategoryPoliticalOrganization, // political party
	"Q7210356": common.CategoryPoliticalOrganization, // political organization

	// public office
	"Q294414":  common.CategoryPublicOffice, // public office
	"Q4164871": common.CategoryPublicOffice, // position

	// organization
	"Q43229":   common.CategoryOrganization, // organization
	"Q484652":  common.CategoryOrganization, // international organization
	"Q245065":  common.CategoryOrganization, // intergovernmental organization
	"Q163740":  common.CategoryOrganization, // nonprofit organization
	"Q4830453": common.CategoryOrganization, // business

	// person
	"Q5": common.CategoryPerson, // human
}

const defaultEndpoint = "https://query.wikidata.org/sparql"

// WikidataLookup queries the Wikidata SPARQL endpoint for the "instance
// of" classes of every item carrying the given English label. It issues
// exactly one HTTP request per call; caching, de-duplication and rate
// limiting are the Resolver's responsibility.
type WikidataLookup struct {
	endpoint string
	client   *http.Client
}

// NewWikidataLookupParams configures a WikidataLookup. Zero values select
// the public endpoint and a default HTTP client.
type NewWikidataLookupParams struct {
	Endpoint string
	Client   *http.Client
}

// NewWikidataLookup creates a lookup client.
func NewWikidataLookup(params NewWikidataLookupParams) *WikidataLookup {
	endpoint := params.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	client := params.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WikidataLookup{
		endpoint: endpoint,
		client:   client,
	}
}

// InstancesOf returns the raw class identifiers (Q-ids) the name is an
// instance of. Zero results and unrecognized classes are not errors.
func (w *WikidataLookup) InstancesOf(ctx context.Context, name string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT ?item ?class WHERE { ?item rdfs:label "%s"@en . ?item wdt:P31 ?class . } LIMIT 50`,
		escapeLabel(name),
	)

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	res, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup response: %w", err)
	}

	bindings := gjson.GetBytes(body, "results.bindings")
	if !bindings.Exists() {
		return nil, fmt.Errorf("unexpected lookup response shape")
	}

	var classes []string
	bindings.ForEach(func(_, binding gjson.Result) bool {
		value := binding.Get("class.value").String()
		if id := classID(value); id != "" {
			classes = append(classes, id)
		}
		return true
	})

	return classes, nil
}

// classID extracts the trailing Q-identifier from an entity URI.
func classID(uri string) string {
	idx := strings.LastIndex(uri, "/")
	if idx < 0 || idx+1 >= len(uri) {
		return ""
	}
	id := uri[idx+1:]
	if !strings.HasPrefix(id, "Q") {
		return ""
	}
	return id
}

func escapeLabel(name string) string {
	name = strings.ReplaceAll(name, `\`, `\\`)
	return strings.ReplaceAll(name, `"`, `\"`)
}
