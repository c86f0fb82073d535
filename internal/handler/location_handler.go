package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/location-service/internal/model"
	"github.com/fleveque/location-service/internal/provider"
)

const siteName = "MachiLogue"

// LocationService is the part of service.LocationService the handlers use.
type LocationService interface {
	GetLocationData(ctx context.Context, place string, tags []string) (*model.LocationRecord, error)
	GetCachedLocationData(ctx context.Context, place string, tags []string) (*model.LocationRecord, bool)
}

// ImageResolver returns a header image URL for a place; it never fails.
type ImageResolver interface {
	Resolve(ctx context.Context, query string) string
}

// LocationHandler serves location records and the page metadata derived
// from them.
type LocationHandler struct {
	locations LocationService
	images    ImageResolver
	logger    *zap.Logger
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locations LocationService, images ImageResolver, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locations: locations,
		images:    images,
		logger:    logger,
	}
}

// request holds the parsed path and query of a location route.
type request struct {
	place string
	tags  []string
}

// parseRequest reads :place (already percent-decoded by the router) and the
// tags query. It writes a 400 and returns false on bad input.
func (h *LocationHandler) parseRequest(c *gin.Context) (request, bool) {
	place := strings.TrimSpace(c.Param("place"))
	if place == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "place is required"})
		return request{}, false
	}

	tags, err := model.ParseTags(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return request{}, false
	}
	return request{place: place, tags: tags}, true
}

// GetLocation returns the full record for a place.
// Route: GET /api/v1/locations/:place?tags=art,finance
//
// A cache miss generates the record, which can take tens of seconds.
func (h *LocationHandler) GetLocation(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	record, err := h.locations.GetLocationData(c.Request.Context(), req.place, req.tags)
	if err != nil {
		var genErr *provider.GenerationError
		switch {
		case errors.As(err, &genErr):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": genErr.UserMessage()})
		case errors.Is(err, context.Canceled):
			// Client went away; nobody reads the response.
			c.Status(499)
		default:
			h.logger.Error("getting location",
				zap.String("place", req.place),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": provider.DefaultFailureMessage})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// Metadata returns page title, description and share image for a place.
// Route: GET /api/v1/locations/:place/metadata?tags=
//
// It only reads the cache; an uncached place gets metadata built from its
// name and a searched header image.
func (h *LocationHandler) Metadata(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	description := fmt.Sprintf("%sの観光地概要と詳細データ。歴史、経済、文化をAIが多角的に分析したトラベルダッシュボード。", req.place)
	var image string

	record, cached := h.locations.GetCachedLocationData(ctx, req.place, req.tags)
	if cached {
		if record.Subtitle != "" {
			description = record.Subtitle
		}
		image = record.HeaderImageURL
	}
	if image == "" {
		image = h.images.Resolve(ctx, req.place)
	}

	c.JSON(http.StatusOK, gin.H{
		"title":       fmt.Sprintf("%sの観光・歴史・経済データ | %s", req.place, siteName),
		"description": description,
		"openGraph": gin.H{
			"title":       fmt.Sprintf("%s - %s", req.place, siteName),
			"description": fmt.Sprintf("%sの観光地概要と詳細データを確認する", req.place),
			"image":       image,
		},
		"cached": cached,
	})
}

// JSONLD returns the schema.org TouristDestination document of a cached place.
// Route: GET /api/v1/locations/:place/jsonld?tags=
func (h *LocationHandler) JSONLD(c *gin.Context) {
	req, ok := h.parseRequest(c)
	if !ok {
		return
	}

	record, cached := h.locations.GetCachedLocationData(c.Request.Context(), req.place, req.tags)
	if !cached {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not cached"})
		return
	}

	c.Header("Content-Type", "application/ld+json; charset=utf-8")
	c.JSON(http.StatusOK, touristDestination(record))
}

func touristDestination(r *model.LocationRecord) gin.H {
	return gin.H{
		"@context":    "https://schema.org",
		"@type":       "TouristDestination",
		"name":        r.LocationName,
		"description": r.Subtitle,
		"image":       r.HeaderImageURL,
		"address": gin.H{
			"@type":          "PostalAddress",
			"addressCountry": r.TourismInfo.RegionalCenter,
		},
		"geo": gin.H{
			"@type":     "GeoCoordinates",
			"latitude":  r.TourismInfo.Latitude,
			"longitude": r.TourismInfo.Longitude,
		},
	}
}

// Image returns a header image URL for a place without touching the cache.
// Route: GET /api/v1/locations/:place/image
func (h *LocationHandler) Image(c *gin.Context) {
	place := strings.TrimSpace(c.Param("place"))
	if place == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "place is required"})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.JSON(http.StatusOK, gin.H{"url": h.images.Resolve(c.Request.Context(), place)})
}
