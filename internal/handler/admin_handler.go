package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/location-service/internal/model"
	"github.com/fleveque/location-service/internal/storage"
)

// Warmer pre-generates cache entries in the background.
// *service.LocationService implements it.
type Warmer interface {
	WarmInBackground(ctx context.Context, places []string, tags []string) bool
	Warming() bool
}

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	calls    storage.GenerationCallRepository
	warmer   Warmer
	featured []string
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. featured is the warm-up list
// used when a request names no places.
func NewAdminHandler(calls storage.GenerationCallRepository, warmer Warmer, featured []string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		calls:    calls,
		warmer:   warmer,
		featured: featured,
		logger:   logger,
	}
}

// Stats returns generation call counters.
// Route: GET /api/v1/admin/stats?recent=10
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.calls.Count(ctx)
	if err != nil {
		h.internalError(c, "counting generation calls", err)
		return
	}

	succeeded, err := h.calls.CountBySuccess(ctx, true)
	if err != nil {
		h.internalError(c, "counting successful generation calls", err)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("recent", "10"))
	if err != nil || limit < 0 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recent must be between 0 and 100"})
		return
	}

	recent, err := h.calls.ListRecent(ctx, limit)
	if err != nil {
		h.internalError(c, "listing generation calls", err)
		return
	}
	if recent == nil {
		recent = []model.GenerationCall{}
	}

	c.JSON(http.StatusOK, gin.H{
		"generation_calls": gin.H{
			"total":     total,
			"succeeded": succeeded,
			"failed":    total - succeeded,
		},
		"recent":  recent,
		"warming": h.warmer.Warming(),
	})
}

type warmRequest struct {
	Places []string `json:"places"`
	Tags   []string `json:"tags"`
}

// Warm pre-generates cache entries in the background.
// Route: POST /api/v1/admin/warm  body: {"places": [...], "tags": [...]}
// An empty body warms the featured places without tags.
func (h *AdminHandler) Warm(c *gin.Context) {
	var req warmRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	for _, tag := range req.Tags {
		if !model.ValidTag(tag) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tag " + strconv.Quote(tag)})
			return
		}
	}

	places := req.Places
	if len(places) == 0 {
		places = h.featured
	}

	if !h.warmer.WarmInBackground(c.Request.Context(), places, req.Tags) {
		c.JSON(http.StatusConflict, gin.H{"error": "a warm-up is already running"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"places": len(places),
		"tags":   req.Tags,
	})
}

func (h *AdminHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
