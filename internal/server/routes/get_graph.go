package routes

import (
	"net/http"

	"github.com/actorgraph/actorgraph/internal/server/middleware"
	"github.com/actorgraph/actorgraph/pkg/common"

	"github.com/labstack/echo/v4"
)

// GetGraphHandler returns the current unified graph view. Before the first
// ingest it returns the reference graph alone, or an empty graph when no
// catalog is loaded either, so consumers never have to handle an error.
func GetGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	if unified, ok := app.Graphs.Unified(); ok {
		return c.JSON(http.StatusOK, unified.View())
	}

	if app.Reference != nil {
		return c.JSON(http.StatusOK, app.Reference.View())
	}

	return c.JSON(http.StatusOK, common.NewGraph().View())
}
