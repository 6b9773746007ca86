package router

import (
	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/handler"
)

// RegisterPublic registers the unauthenticated read endpoints: catalog
// browsing, mood suggestions and shared-plan reads. The optional cache
// middleware wraps the catalog and mood routes; pass nil to serve
// uncached. Shared-plan reads are never cached: link expiry and the view
// counter must observe every request.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, m *handler.MoodHandler, sh *handler.ShareHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)
	g.GET("/activities", cat.List)
	g.GET("/activities/:id", cat.Get)
	g.GET("/moods", m.List)
	g.GET("/moods/:mood/suggestions", m.Suggestions)

	e.GET("/v1/shared/:linkId", sh.Read)
}
