// Package router registers the HTTP routes of the booking API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-booking/internal/config"
	"github.com/iliyamo/rental-booking/internal/handler"
	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/utils"
)

// Deps carries everything the routes need. Redis may be nil, in which case
// rate limiting and response caching are skipped.
type Deps struct {
	JWTSecret    string
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Calendar     *handler.CalendarHandler
	Reminders    *handler.ReminderHandler
	Redis        *redis.Client
	RateLimit    config.RateLimitConfig
	Cache        config.CacheConfig
}

// RegisterRoutes mounts the health probe, the login endpoint and the
// owner-only API under /v1.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// A nil *redis.Client must not reach the middlewares as a non-nil
	// interface.
	var scripter redis.Scripter
	var cmdable redis.Cmdable
	if d.Redis != nil {
		scripter, cmdable = d.Redis, d.Redis
	}

	auth := e.Group("/v1/auth")
	auth.POST("/login", d.Auth.Login, middleware.RateLimit(d.RateLimit, scripter))

	g := e.Group("/v1",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(utils.RoleOwner),
	)

	// ---- Properties ----
	g.GET("/properties", d.Calendar.Properties, middleware.ResponseCache(d.Cache, cmdable))
	g.GET("/properties/summary", d.Calendar.PropertySummaries)

	// ---- Reservations ----
	g.GET("/reservations", d.Reservations.List)
	g.GET("/export.csv", d.Reservations.Export)
	g.POST("/reservations", d.Reservations.Create)
	g.GET("/reservations/:id", d.Reservations.Get)
	g.PUT("/reservations/:id", d.Reservations.Update)
	g.POST("/reservations/:id/cancel", d.Reservations.Cancel)
	g.POST("/reservations/:id/cleaning", d.Reservations.MarkCleaning)
	g.DELETE("/reservations/:id", d.Reservations.Delete)

	// ---- Availability and calendar ----
	g.GET("/availability", d.Calendar.Availability)
	g.GET("/availability/search", d.Calendar.Search)
	g.GET("/calendar", d.Calendar.Month)
	g.GET("/calendar/day", d.Calendar.Day)
	g.GET("/stats", d.Calendar.Stats)

	// ---- Reminders ----
	g.GET("/reminders", d.Reminders.List)
	g.GET("/reminders/status", d.Reminders.Status)
	g.POST("/reminders/:id/complete", d.Reminders.Complete)
	g.GET("/reminders/:id/checklist", d.Reminders.Checklist)
	g.PUT("/reminders/:id/checklist/:index", d.Reminders.SetChecklistItem)
	g.POST("/reminders/:id/checklist/complete", d.Reminders.CompleteChecklist)
}
