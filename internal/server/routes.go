package server

import (
	"github.com/actorgraph/actorgraph/internal/server/routes"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiRoutes := e.Group("/api")

	// Event ingestion and graph routes
	apiRoutes.POST("/events", routes.IngestEventsHandler)
	apiRoutes.GET("/graph", routes.GetGraphHandler)

	// Classification routes
	apiRoutes.GET("/classify", routes.ClassifyHandler)
	apiRoutes.DELETE("/classify/cache", routes.ClearClassifyCacheHandler)
}
