package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/actorgraph/actorgraph/internal/server/middleware"
	"github.com/actorgraph/actorgraph/pkg/catalog"
	"github.com/actorgraph/actorgraph/pkg/classify"
	"github.com/actorgraph/actorgraph/pkg/graph"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
)

const routesTestCatalog = `[
	{
		"id": "United States",
		"alternate_names": ["USA", "US"],
		"connections": [{"target": "NATO", "relationship": "member of"}]
	},
	{"id": "NATO", "non_us": true},
	{"id": "John Smith", "role": "Senator from Ohio"}
]`

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

func newTestApp(t *testing.T) *middleware.App {
	t.Helper()
	idx, err := catalog.Load(strings.NewReader(routesTestCatalog))
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return &middleware.App{
		Index:     idx,
		Reference: idx.Graph(),
		Resolver:  classify.NewResolver(classify.NewResolverParams{Reference: idx}),
		Graphs:    graph.NewClient(graph.NewClientParams{}),
	}
}

func newTestContext(t *testing.T, app *middleware.App, req *http.Request) (*middleware.AppContext, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	rec := httptest.NewRecorder()
	return &middleware.AppContext{
		Context: e.NewContext(req, rec),
		App:     app,
	}, rec
}

func TestIngestEventsJSON(t *testing.T) {
	app := newTestApp(t)

	body := `{"records": [
		{"actor": "United States", "target": "Russia", "action": "sanction"},
		{"actor": "United States", "target": "NATO", "action": "fund"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newTestContext(t, app, req)

	if err := IngestEventsHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	res := gjson.Parse(rec.Body.String())
	if !res.Get("changed").Bool() {
		t.Error("expected the first ingest to report changed")
	}
	if got := res.Get("records").Int(); got != 2 {
		t.Errorf("records = %d, want 2", got)
	}
	// Reference (3) + Russia from the batch.
	if got := res.Get("graph.nodes.#").Int(); got != 4 {
		t.Errorf("nodes = %d, want 4", got)
	}
}

func TestIngestEventsSkipsPartialRecords(t *testing.T) {
	app := newTestApp(t)

	// A record missing its target is skipped by the graph builder, same as
	// on the CSV path; it does not fail the whole batch.
	body := `{"records": [
		{"actor": "Russia", "action": "warn"},
		{"actor": "Russia", "target": "Ukraine", "action": "invade"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newTestContext(t, app, req)

	if err := IngestEventsHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	res := gjson.Parse(rec.Body.String())
	if got := res.Get("records").Int(); got != 2 {
		t.Errorf("records = %d, want 2", got)
	}
	// Reference (3) + Russia + Ukraine; the partial record adds nothing.
	if got := res.Get("graph.nodes.#").Int(); got != 5 {
		t.Errorf("nodes = %d, want 5", got)
	}
	if got := res.Get(`graph.edges.#(source=="Russia").target`).String(); got != "Ukraine" {
		t.Errorf("expected only the complete record's edge, got target %q", got)
	}
}

func TestIngestEventsRejectsEmptyBatch(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(`{"records": []}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newTestContext(t, app, req)

	if err := IngestEventsHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestIngestEventsUnchangedBatch(t *testing.T) {
	app := newTestApp(t)

	batch := `{"records": [{"actor": "Russia", "target": "Ukraine", "action": "invade"}]}`

	// The batch fingerprint covers record content, not the generated IDs,
	// so re-sending the same batch reports unchanged and keeps the counts.
	for i, wantChanged := range []bool{true, false} {
		req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(batch))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c, rec := newTestContext(t, app, req)
		if err := IngestEventsHandler(c); err != nil {
			t.Fatalf("ingest %d failed: %v", i, err)
		}
		res := gjson.Parse(rec.Body.String())
		if got := res.Get("changed").Bool(); got != wantChanged {
			t.Errorf("ingest %d: changed = %v, want %v", i, got, wantChanged)
		}
		if got := res.Get("graph.nodes.#").Int(); got != 5 {
			t.Errorf("ingest %d: nodes = %d, want 5", i, got)
		}
		russia := res.Get(`graph.nodes.#(id=="Russia").count`).Int()
		if russia != 1 {
			t.Errorf("ingest %d: Russia count = %d, want 1", i, russia)
		}
	}
}

func TestGetGraphBeforeIngest(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
	c, rec := newTestContext(t, app, req)

	if err := GetGraphHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	res := gjson.Parse(rec.Body.String())
	if got := res.Get("nodes.#").Int(); got != 3 {
		t.Errorf("expected the reference graph's 3 nodes, got %d", got)
	}
}

func TestClassifyEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/classify?name=Sen.+Smith", nil)
	c, rec := newTestContext(t, app, req)

	if err := ClassifyHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := gjson.Parse(rec.Body.String())
	if got := res.Get("category").String(); got != "public_office" {
		t.Errorf("category = %q, want public_office", got)
	}
	if got := res.Get("label").String(); got != "Office Holder" {
		t.Errorf("label = %q, want Office Holder", got)
	}
}

func TestClassifyEndpointRequiresName(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/classify", nil)
	c, rec := newTestContext(t, app, req)

	if err := ClassifyHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestClearClassifyCache(t *testing.T) {
	app := newTestApp(t)
	app.Resolver.Classify(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "Sen. Smith")
	if app.Resolver.CacheSize() == 0 {
		t.Fatal("expected a cache entry before clearing")
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/classify/cache", nil)
	c, rec := newTestContext(t, app, req)

	if err := ClearClassifyCacheHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if app.Resolver.CacheSize() != 0 {
		t.Errorf("expected an empty cache, got %d entries", app.Resolver.CacheSize())
	}
}

type slowLookup struct{}

func (slowLookup) InstancesOf(ctx context.Context, name string) ([]string, error) {
	time.Sleep(2 * time.Millisecond)
	return []string{"Q6256"}, nil
}

// Graph reads issued while an ingest is still classifying must only ever
// see the previous snapshot, never the one under construction.
func TestConcurrentIngestAndGraphReads(t *testing.T) {
	app := newTestApp(t)
	app.Resolver = classify.NewResolver(classify.NewResolverParams{
		Reference:   app.Index,
		Lookup:      slowLookup{},
		MinInterval: time.Millisecond,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		body := `{"records": [
			{"actor": "Russia", "target": "Ukraine", "action": "invade"},
			{"actor": "Freedonia", "target": "Sylvania", "action": "declare war"}
		]}`
		req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c, rec := newTestContext(t, app, req)
		if err := IngestEventsHandler(c); err != nil {
			t.Errorf("ingest failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("ingest status = %d, want 200", rec.Code)
		}
	}()

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
		c, rec := newTestContext(t, app, req)
		if err := GetGraphHandler(c); err != nil {
			t.Fatalf("graph read failed: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("graph read status = %d, want 200", rec.Code)
		}
	}
	wg.Wait()
}

func TestIngestEventsCSVUpload(t *testing.T) {
	app := newTestApp(t)

	var buf strings.Builder
	boundary := "testboundary"
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString("Content-Disposition: form-data; name=\"file\"; filename=\"events.csv\"\r\n")
	buf.WriteString("Content-Type: text/csv\r\n\r\n")
	buf.WriteString("Actor,Target,Action\nUSA,Russia,sanction\n")
	buf.WriteString("\r\n--" + boundary + "--\r\n")

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(buf.String()))
	req.Header.Set(echo.HeaderContentType, "multipart/form-data; boundary="+boundary)
	c, rec := newTestContext(t, app, req)

	if err := IngestEventsHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	res := gjson.Parse(rec.Body.String())
	if got := res.Get("records").Int(); got != 1 {
		t.Errorf("records = %d, want 1", got)
	}
}
