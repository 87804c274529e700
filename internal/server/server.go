package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "github.com/actorgraph/actorgraph/internal/server/middleware"
	"github.com/actorgraph/actorgraph/internal/util"
	"github.com/actorgraph/actorgraph/pkg/catalog"
	"github.com/actorgraph/actorgraph/pkg/classify"
	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/graph"
	"github.com/actorgraph/actorgraph/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// Init wires the application and runs the HTTP server until SIGINT or
// SIGTERM, then drains for up to ten seconds.
func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var index *catalog.Index
	var reference *common.Graph
	catalogPath := util.GetEnv("CATALOG_PATH")
	if catalogPath != "" {
		idx, err := catalog.LoadFile(catalogPath)
		if err != nil {
			logger.Fatal("Failed to load reference catalog", "path", catalogPath, "err", err)
		}
		index = idx
		reference = idx.Graph()
	} else {
		logger.Warn("CATALOG_PATH not set, running without a reference catalog")
		reference = common.NewGraph()
	}

	lookup := classify.NewWikidataLookup(classify.NewWikidataLookupParams{
		Endpoint: util.GetEnv("CLASSIFY_ENDPOINT"),
	})

	var ref classify.Reference
	if index != nil {
		ref = index
	}
	resolver := classify.NewResolver(classify.NewResolverParams{
		Reference:   ref,
		Lookup:      lookup,
		MinInterval: util.GetEnvDuration("CLASSIFY_MIN_INTERVAL", 150*time.Millisecond),
		MaxRetries:  util.GetEnvInt("CLASSIFY_MAX_RETRIES", 2),
		MaxParallel: util.GetEnvInt("CLASSIFY_PARALLEL", 8),
	})

	graphs := graph.NewClient(graph.NewClientParams{})

	app := &mid.App{
		Index:     index,
		Reference: reference,
		Resolver:  resolver,
		Graphs:    graphs,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
