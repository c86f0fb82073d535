// Package provider defines the external acquisition sources of the location
// pipeline: image search services that supply a header photograph, and the
// content generator that drives the generative backends.
package provider

import (
	"context"
	"errors"
)

// ErrNoImage is returned when an image provider has no credentials or its
// search came back empty.
var ErrNoImage = errors.New("no image found")

// ImageProvider is the interface for image search services.
// Each implementation returns at most one landscape photo URL for a query.
type ImageProvider interface {
	// SearchImage returns the URL of the best matching photo.
	SearchImage(ctx context.Context, query string) (string, error)

	// Name returns a human-readable name for the provider.
	Name() string
}
