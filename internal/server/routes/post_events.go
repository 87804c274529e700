package routes

import (
	"net/http"
	"strings"

	"github.com/actorgraph/actorgraph/internal/server/middleware"
	"github.com/actorgraph/actorgraph/pkg/common"
	eventcsv "github.com/actorgraph/actorgraph/pkg/loader/csv"
	"github.com/actorgraph/actorgraph/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type ingestResponse struct {
	Message string            `json:"message"`
	Changed bool              `json:"changed"`
	Records int               `json:"records"`
	Graph   *common.GraphView `json:"graph,omitempty"`
}

// IngestEventsHandler accepts a batch of event records, either as a
// multipart CSV upload (field "file") or as a JSON array, rebuilds the
// derived graph, merges it with the reference graph and classifies every
// new node. The response carries the unified graph view.
func IngestEventsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	records, err := readRecords(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Message: err.Error(),
		})
	}

	// Classification runs inside the ingest finalizer so the snapshot is
	// never visible to concurrent graph reads while still being labelled.
	unified, changed, err := app.Graphs.Ingest(app.Reference, records, func(g *common.Graph) error {
		return app.Resolver.ClassifyAll(ctx, g)
	})
	if err != nil {
		logger.Error("Failed to classify graph nodes", "err", err)
	}

	view := unified.View()
	return c.JSON(http.StatusOK, ingestResponse{
		Message: "ok",
		Changed: changed,
		Records: len(records),
		Graph:   &view,
	})
}

// Records missing an actor or target are accepted here and skipped by the
// graph builder, matching the CSV path; only an empty batch is rejected.
type eventInput struct {
	Actor  string            `json:"actor"`
	Target string            `json:"target"`
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

type eventBatchInput struct {
	Records []eventInput `json:"records" validate:"required,min=1"`
}

func readRecords(c echo.Context) ([]*common.EventRecord, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		data := new(eventBatchInput)
		if err := c.Bind(data); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if err := c.Validate(data); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}

		records := make([]*common.EventRecord, 0, len(data.Records))
		for _, in := range data.Records {
			id, err := gonanoid.New()
			if err != nil {
				return nil, err
			}
			records = append(records, &common.EventRecord{
				ID:     id,
				Actor:  in.Actor,
				Target: in.Target,
				Action: in.Action,
				Fields: in.Fields,
			})
		}
		return records, nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "expected a JSON batch or a multipart CSV upload under \"file\"")
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return eventcsv.ParseEvents(src)
}
