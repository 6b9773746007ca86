package router

import (
	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/handler"
	"github.com/satsun/backend/internal/middleware"
)

// RegisterPlanner registers every authenticated planning route: weekend
// plan lifecycle, day and activity-instance mutation, catalog mutation and
// exports. All of them sit behind the JWT middleware; ownership checks
// happen inside the handlers.
func RegisterPlanner(e *echo.Echo, w *handler.WeekendHandler, d *handler.DayHandler, i *handler.InstanceHandler, cat *handler.CatalogHandler, sh *handler.ShareHandler, ex *handler.ExportHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// Weekend plans
	g.POST("/weekends", w.Create)
	g.GET("/weekends", w.List)
	g.GET("/weekends/:id", w.Get)
	g.PATCH("/weekends/:id", w.Update)
	g.DELETE("/weekends/:id", w.Delete)
	g.POST("/weekends/:id/duplicate", w.Duplicate)
	g.PUT("/weekends/:id/mood", w.SetMood)

	// Days: direct routes and the nested variant that re-verifies the
	// parent-plan linkage from the URL.
	g.PATCH("/days/:dayId", d.Update)
	g.DELETE("/days/:dayId", d.Delete)
	g.PATCH("/weekends/:id/days/:dayId", d.Update)
	g.DELETE("/weekends/:id/days/:dayId", d.Delete)
	g.POST("/days/:dayId/activities", d.AddInstance)

	// Activity instances
	g.PATCH("/activity-instances/:id", i.Update)
	g.DELETE("/activity-instances/:id", i.Delete)
	g.POST("/activity-instances/:id/toggle", i.Toggle)
	g.PUT("/activity-instances/:id/move", i.Move)

	// Catalog mutation (global, no ownership)
	g.POST("/activities", cat.Create)
	g.PATCH("/activities/:id", cat.Update)
	g.DELETE("/activities/:id", cat.Delete)

	// Sharing and export
	g.POST("/weekends/:id/share", sh.Create)
	g.POST("/weekends/:id/export", ex.Create)
	g.GET("/exports/:id", ex.Get)
}
