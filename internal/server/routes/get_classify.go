package routes

import (
	"net/http"

	"github.com/actorgraph/actorgraph/internal/server/middleware"
	"github.com/actorgraph/actorgraph/pkg/common"

	"github.com/labstack/echo/v4"
)

type classifyResponse struct {
	Name     string          `json:"name"`
	Category common.Category `json:"category"`
	Label    string          `json:"label"`
}

// ClassifyHandler resolves the category for a single entity name given in
// the "name" query parameter.
func ClassifyHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	name := c.QueryParam("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "query parameter \"name\" is required",
		})
	}

	category := app.Resolver.Classify(c.Request().Context(), name)
	return c.JSON(http.StatusOK, classifyResponse{
		Name:     name,
		Category: category,
		Label:    category.Label(),
	})
}

// ClearClassifyCacheHandler drops every cached classification so that
// subsequent lookups recompute from scratch.
func ClearClassifyCacheHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	app.Resolver.ClearCache()
	return c.JSON(http.StatusOK, map[string]string{"message": "classification cache cleared"})
}
