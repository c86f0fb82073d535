package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fleveque/location-service/internal/metrics"
	"github.com/fleveque/location-service/internal/provider"
)

// DefaultImageURL is the header image used when no provider has a photo.
const DefaultImageURL = "https://images.unsplash.com/photo-1477959858617-67f85cf4f1df?auto=format&fit=crop&w=1200&q=80"

// ImageResolver picks a header image for a place. It tries each provider
// once, in order, and never fails: without a usable result it returns the
// configured default.
type ImageResolver struct {
	providers  []provider.ImageProvider
	defaultURL string
	logger     *zap.Logger
}

// NewImageResolver creates a resolver. An empty defaultURL selects
// DefaultImageURL.
func NewImageResolver(providers []provider.ImageProvider, defaultURL string, logger *zap.Logger) *ImageResolver {
	if defaultURL == "" {
		defaultURL = DefaultImageURL
	}
	return &ImageResolver{
		providers:  providers,
		defaultURL: defaultURL,
		logger:     logger,
	}
}

// Resolve returns a photo URL for query. The result is never empty.
func (r *ImageResolver) Resolve(ctx context.Context, query string) string {
	for _, p := range r.providers {
		url, err := p.SearchImage(ctx, query)
		if err == nil && url != "" {
			metrics.ImageResolutions.WithLabelValues(p.Name()).Inc()
			return url
		}

		if err != nil && !errors.Is(err, provider.ErrNoImage) {
			r.logger.Warn("image provider failed",
				zap.String("provider", p.Name()),
				zap.String("query", query),
				zap.Error(err),
			)
		} else {
			r.logger.Debug("image provider miss",
				zap.String("provider", p.Name()),
				zap.String("query", query),
			)
		}
	}

	metrics.ImageResolutions.WithLabelValues("default").Inc()
	return r.defaultURL
}
