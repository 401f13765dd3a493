// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/powermilk/cinema-reservation/internal/config"
	"github.com/powermilk/cinema-reservation/internal/handler"
	"github.com/powermilk/cinema-reservation/internal/middleware"
)

// RegisterRoutes wires up all API endpoints. The browse endpoints go
// through the Redis response cache; the whole /v1 surface sits behind
// the rate limiter. Both middlewares degrade to pass-through when rdb
// is nil.
func RegisterRoutes(e *echo.Echo, reservations *handler.ReservationHandler, catalog *handler.CatalogHandler, stats *handler.StatsHandler, health *handler.HealthHandler, rdb *redis.Client) {
	e.GET("/healthz", health.Check)

	v1 := e.Group("/v1")
	v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Read-only browse surface, cached. Cache staleness is bounded by
	// the configured TTL; reservations themselves never go through
	// the cache because only GET is cacheable.
	cached := v1.Group("", middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	cached.GET("/movies", catalog.ListMovies)
	cached.GET("/movies/:id", catalog.GetMovie)
	cached.GET("/movies/:id/screenings", catalog.ListScreeningsByMovie)
	cached.GET("/screenings", catalog.ListScreenings)
	cached.GET("/screenings/:id", catalog.GetScreening)
	cached.GET("/screenings/:id/seats", catalog.GetSeatMap)
	cached.GET("/screenings/:id/seats/available", catalog.GetAvailableSeats)
	cached.GET("/stats", stats.Overview)

	// Reservation lifecycle.
	v1.POST("/reservations", reservations.Create)
	v1.GET("/reservations/:id", reservations.Get)
	v1.POST("/reservations/:id/payment", reservations.ConfirmPayment)
	v1.DELETE("/reservations/:id", reservations.Cancel)
	v1.GET("/customers/:id/reservations", reservations.ListByCustomer)
}
