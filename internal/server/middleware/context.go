package middleware

import (
	"github.com/actorgraph/actorgraph/pkg/catalog"
	"github.com/actorgraph/actorgraph/pkg/classify"
	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/graph"

	"github.com/labstack/echo/v4"
)

// App bundles the process-wide collaborators every handler needs: the
// read-only reference index and its pre-built graph, the classification
// resolver and the graph client holding the current unified snapshot.
type App struct {
	Index     *catalog.Index
	Reference *common.Graph
	Resolver  *classify.Resolver
	Graphs    *graph.Client
}

// AppContext wraps the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware injects the App into every request context.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{
				Context: c,
				App:     app,
			})
		}
	}
}
