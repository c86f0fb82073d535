// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/location-service/internal/config"
	"github.com/fleveque/location-service/internal/handler"
	"github.com/fleveque/location-service/internal/middleware"
	"github.com/fleveque/location-service/internal/storage"
)

// Deps are the service-layer dependencies the handlers need.
type Deps struct {
	Locations    handler.LocationService
	Images       handler.ImageResolver
	Warmer       handler.Warmer
	Calls        storage.GenerationCallRepository
	CacheBackend string
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// Dependencies are passed explicitly; each handler gets exactly what it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler(deps.CacheBackend)
	locationHandler := handler.NewLocationHandler(deps.Locations, deps.Images, logger)
	adminHandler := handler.NewAdminHandler(deps.Calls, deps.Warmer, cfg.FeaturedPlaces, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/metrics", middleware.MetricsHandler())

	// CORS middleware applies to the entire API group.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Group middleware only runs for matched routes, so preflights need a
	// route of their own for CORS to answer them.
	api.OPTIONS("/*path", func(c *gin.Context) {})

	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	authed.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		authed.GET("/locations/:place", locationHandler.GetLocation)
		authed.GET("/locations/:place/metadata", locationHandler.Metadata)
		authed.GET("/locations/:place/jsonld", locationHandler.JSONLD)
		authed.GET("/locations/:place/image", locationHandler.Image)
	}

	// Admin endpoints (separate auth with admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.POST("/warm", adminHandler.Warm)
	}
}
